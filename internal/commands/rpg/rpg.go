// Package rpg holds the commands of the Isonvale role-playing game.
package rpg

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/rpg"
)

// Commands returns every game command.
func Commands(svc *rpg.Service) []command.TextCommand {
	return []command.TextCommand{
		NewStart(svc),
		NewProfile(svc),
		NewMove(svc),
		NewZone(svc),
		NewTalk(svc),
		NewItem(svc),
		NewInventory(svc),
		NewHeal(svc),
		NewBuy(svc),
		NewResetXP(svc),
	}
}

// failure maps a game error to what the player is told.
func failure(mc *command.MessageContext, op string, err error) error {
	switch {
	case errors.Is(err, rpg.ErrNotPlaying):
		return command.Refuse("rpg.not_playing", map[string]any{"Prefix": mc.Prefix()})
	case errors.Is(err, rpg.ErrAlreadyPlaying):
		return command.Refuse("rpg.already_playing", nil)
	case errors.Is(err, rpg.ErrUnknownZone):
		return command.Invalid("rpg.unknown_zone")
	case errors.Is(err, rpg.ErrUnknownPnj):
		return command.Invalid("rpg.unknown_pnj")
	case errors.Is(err, rpg.ErrUnknownItem):
		return command.Invalid("rpg.unknown_item")
	case errors.Is(err, rpg.ErrNotEnoughCoins):
		return command.Refuse("rpg.not_enough_coins", nil)
	case errors.Is(err, rpg.ErrFullHealth):
		return command.Refuse("rpg.full_health", nil)
	}
	return command.Persistence(op, err)
}

// parseColor reads a "#rrggbb" colour, 0 when malformed.
func parseColor(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
