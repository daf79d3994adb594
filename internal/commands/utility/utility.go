// Package utility holds the information, settings and todo commands.
package utility

import (
	"context"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

// Store is the part of the profile store these commands use.
type Store interface {
	EnsureGuild(ctx context.Context, guildID, guildName string) (*storage.GuildProfile, error)
	UpdateGuild(ctx context.Context, guildID string, patch storage.GuildPatch) (*storage.GuildProfile, error)

	Todo(ctx context.Context, userID string) (*storage.UserTodo, error)
	AddTask(ctx context.Context, userID, userName, task string) (*storage.UserTodo, error)
	RemoveTask(ctx context.Context, userID string, index int) (string, error)
	ClearTodo(ctx context.Context, userID string) error
}

// Commands returns every command of the package.
func Commands(store Store) []command.TextCommand {
	return []command.TextCommand{
		Help{},
		UserInfo{},
		RoleInfo{},
		Avatar{},
		NewPrefix(store),
		NewWelcome(store),
		NewTodo(store),
	}
}
