// Package resolve finds the member, role or user a piece of free text refers to.
//
// Every lookup runs two tiers over the snapshot, in snapshot order:
//
//  1. exact: the ID, its mention form, or a case-insensitive match of the tag/name;
//  2. fuzzy: a case-insensitive substring match of the name or display name, only tried
//     when the exact tier found nothing and the query is at least MinFuzzyLength runes.
package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/kyofu-bot/kyofu/internal/entity"
)

// MinFuzzyLength keeps one- to three-letter queries from matching half a member list.
const MinFuzzyLength = 4

// Query joins argument tokens the way resolvers expect them.
func Query(args ...string) string {
	return strings.Join(args, " ")
}

// Member resolves a guild member by ID, <@ID>, <@!ID>, tag, username or display name.
func Member(snap *entity.Snapshot, query string) (entity.Member, bool) {
	if snap == nil {
		return entity.Member{}, false
	}
	return find(snap.Members, query,
		func(m entity.Member, q, lq string) bool {
			id := m.ID()
			return q == id ||
				q == "<@"+id+">" ||
				q == "<@!"+id+">" ||
				lq == strings.ToLower(m.User.Tag()) ||
				lq == strings.ToLower(m.DisplayName()) ||
				lq == strings.ToLower(m.User.Username)
		},
		func(m entity.Member, lq string) bool {
			return contains(m.User.Username, lq) || contains(m.DisplayName(), lq)
		},
	)
}

// Role resolves a guild role by ID, <@&ID> or name.
func Role(snap *entity.Snapshot, query string) (entity.Role, bool) {
	if snap == nil {
		return entity.Role{}, false
	}
	return find(snap.Roles, query,
		func(r entity.Role, q, lq string) bool {
			return q == r.ID ||
				q == "<@&"+r.ID+">" ||
				lq == strings.ToLower(r.Name)
		},
		func(r entity.Role, lq string) bool {
			return contains(r.Name, lq)
		},
	)
}

// User resolves any user known to the bot by ID, <@ID>, <@!ID>, tag, username or global name.
func User(snap *entity.Snapshot, query string) (entity.User, bool) {
	if snap == nil {
		return entity.User{}, false
	}
	return find(snap.Users, query,
		func(u entity.User, q, lq string) bool {
			return q == u.ID ||
				q == "<@"+u.ID+">" ||
				q == "<@!"+u.ID+">" ||
				lq == strings.ToLower(u.Tag()) ||
				lq == strings.ToLower(u.Username) ||
				(u.GlobalName != "" && lq == strings.ToLower(u.GlobalName))
		},
		func(u entity.User, lq string) bool {
			return contains(u.Username, lq) || contains(u.GlobalName, lq)
		},
	)
}

func find[T any](items []T, query string, exact func(item T, q, lq string) bool, fuzzy func(item T, lq string) bool) (T, bool) {
	var zero T
	if query == "" {
		return zero, false
	}

	lq := strings.ToLower(query)
	for _, it := range items {
		if exact(it, query, lq) {
			return it, true
		}
	}

	if utf8.RuneCountInString(query) < MinFuzzyLength {
		return zero, false
	}
	for _, it := range items {
		if fuzzy(it, lq) {
			return it, true
		}
	}
	return zero, false
}

// contains covers the starts-with, includes and ends-with checks in one test.
func contains(name, lq string) bool {
	return name != "" && strings.Contains(strings.ToLower(name), lq)
}

// Channel extracts the channel ID from <#ID> or a raw numeric ID. The snapshot does not
// index channels, so existence is left to the caller.
func Channel(query string) (string, bool) {
	id := strings.TrimSuffix(strings.TrimPrefix(query, "<#"), ">")
	if strings.HasPrefix(query, "<#") != strings.HasSuffix(query, ">") {
		return "", false
	}
	if id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return "", false
	}
	return id, true
}
