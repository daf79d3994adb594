package storage

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// DefaultGuild is the configuration used for guilds without a stored profile.
func (s *Store) DefaultGuild(guildID string) GuildProfile {
	return GuildProfile{GuildID: guildID, Prefix: s.defaultPrefix}
}

func (s *Store) Guild(ctx context.Context, guildID string) (*GuildProfile, error) {
	return get[GuildProfile](ctx, s, KindGuild, guildID)
}

// GuildSettings never fails: a missing profile or a persistence fault yields the
// default configuration, and the fault is logged.
func (s *Store) GuildSettings(ctx context.Context, guildID string) GuildProfile {
	g, err := s.Guild(ctx, guildID)
	if err == nil {
		return *g
	}
	if !errors.Is(err, ErrNotFound) {
		s.log.Error("guild settings unavailable, using defaults", zap.String("guild", guildID), zap.Error(err))
	}
	return s.DefaultGuild(guildID)
}

// CreateGuild stores a new profile, filling omitted optional fields with defaults.
func (s *Store) CreateGuild(ctx context.Context, g GuildProfile) (*GuildProfile, error) {
	if g.Prefix == "" {
		g.Prefix = s.defaultPrefix
	}
	if err := s.backend.Create(ctx, KindGuild, g.GuildID, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// EnsureGuild returns the stored profile, creating it on first sight.
func (s *Store) EnsureGuild(ctx context.Context, guildID, guildName string) (*GuildProfile, error) {
	g, err := s.Guild(ctx, guildID)
	if !errors.Is(err, ErrNotFound) {
		return g, err
	}
	g, err = s.CreateGuild(ctx, GuildProfile{GuildID: guildID, GuildName: guildName})
	if errors.Is(err, ErrExists) {
		return s.Guild(ctx, guildID)
	}
	return g, err
}

func (s *Store) UpdateGuild(ctx context.Context, guildID string, patch GuildPatch) (*GuildProfile, error) {
	return update(ctx, s, KindGuild, guildID, func(g *GuildProfile) error {
		if patch.GuildName != nil {
			g.GuildName = *patch.GuildName
		}
		if patch.Prefix != nil {
			g.Prefix = *patch.Prefix
		}
		if patch.Join != nil {
			g.Join = *patch.Join
		}
		if patch.Leave != nil {
			g.Leave = *patch.Leave
		}
		return nil
	})
}

func (s *Store) DeleteGuild(ctx context.Context, guildID string) error {
	return s.backend.Delete(ctx, KindGuild, guildID)
}
