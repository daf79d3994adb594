package storage

import (
	"context"
	"slices"
)

func memberKey(guildID, userID string) string { return guildID + ":" + userID }

func (s *Store) Member(ctx context.Context, guildID, userID string) (*MemberProfile, error) {
	return get[MemberProfile](ctx, s, KindMember, memberKey(guildID, userID))
}

// AddWarn appends a warn, creating the member profile on first interaction.
func (s *Store) AddWarn(ctx context.Context, m MemberProfile, w Warn) (*MemberProfile, error) {
	init := func() MemberProfile {
		return MemberProfile{UserID: m.UserID, UserName: m.UserName, GuildID: m.GuildID, GuildName: m.GuildName}
	}
	return upsert(ctx, s, KindMember, memberKey(m.GuildID, m.UserID), init, func(p *MemberProfile) error {
		p.UserName = m.UserName
		p.Warns = append(p.Warns, w)
		return nil
	})
}

// RemoveWarn drops the warn with the given ID. It reports whether one was removed.
func (s *Store) RemoveWarn(ctx context.Context, guildID, userID, warnID string) (bool, error) {
	removed := false
	_, err := update(ctx, s, KindMember, memberKey(guildID, userID), func(p *MemberProfile) error {
		before := len(p.Warns)
		p.Warns = slices.DeleteFunc(p.Warns, func(w Warn) bool { return w.ID == warnID })
		removed = len(p.Warns) != before
		return nil
	})
	return removed, err
}

func (s *Store) DeleteMember(ctx context.Context, guildID, userID string) error {
	return s.backend.Delete(ctx, KindMember, memberKey(guildID, userID))
}
