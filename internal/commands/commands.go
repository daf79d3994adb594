// Package commands assembles the command registry from the handler packages.
package commands

import (
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/commands/fun"
	"github.com/kyofu-bot/kyofu/internal/commands/moderation"
	rpgcmd "github.com/kyofu-bot/kyofu/internal/commands/rpg"
	"github.com/kyofu-bot/kyofu/internal/commands/utility"
	"github.com/kyofu-bot/kyofu/internal/rpg"
	"github.com/kyofu-bot/kyofu/internal/storage"
	"github.com/kyofu-bot/kyofu/pkg/cmd"
)

// Registry registers every command behind the standard middleware chain. The logger is
// outermost so refused invocations are logged too.
func Registry(store *storage.Store, developerID string, log *zap.Logger) (*cmd.Registry, error) {
	reg := cmd.NewRegistry()
	mws := []cmd.Middleware{
		command.WithAccessCheck(developerID),
		command.WithGuildOnly(),
		command.WithCommandLogger(log),
	}

	groups := [][]command.TextCommand{
		utility.Commands(store),
		fun.Commands(store),
		moderation.Commands(store),
		rpgcmd.Commands(rpg.NewService(store, log.Named("rpg"))),
	}
	for _, g := range groups {
		if err := command.Register(reg, mws, g...); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
