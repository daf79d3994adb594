// Package entity holds the point-in-time view of a guild (members, roles and known users)
// that commands resolve free-text references against.
package entity

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

type User struct {
	ID            string
	Username      string
	GlobalName    string
	Discriminator string
	AvatarURL     string
	Bot           bool
}

// Tag is username#discriminator, or the bare username for accounts on the new naming system.
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func (u User) Mention() string { return "<@" + u.ID + ">" }

type Member struct {
	User    User
	GuildID string
	Nick    string
	RoleIDs []string
}

func (m Member) ID() string { return m.User.ID }

// DisplayName follows Discord's order: guild nickname, global name, username.
func (m Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.DisplayName()
}

type Role struct {
	ID          string
	Name        string
	Color       int
	Position    int
	Permissions int64
	Mentionable bool
}

func (r Role) Mention() string { return "<@&" + r.ID + ">" }

// Snapshot is read-only once built. Slices keep the order the chat service reported,
// which is the order resolvers scan in.
type Snapshot struct {
	GuildID   string
	GuildName string
	OwnerID   string
	Members   []Member
	Roles     []Role
	Users     []User
}

func NewUser(u *discordgo.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:            u.ID,
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		AvatarURL:     u.AvatarURL("256"),
		Bot:           u.Bot,
	}
}

func NewMember(guildID string, m *discordgo.Member) Member {
	if m == nil {
		return Member{}
	}
	if m.GuildID != "" {
		guildID = m.GuildID
	}
	return Member{
		User:    NewUser(m.User),
		GuildID: guildID,
		Nick:    m.Nick,
		RoleIDs: append([]string(nil), m.Roles...),
	}
}

func NewRole(r *discordgo.Role) Role {
	return Role{
		ID:          r.ID,
		Name:        r.Name,
		Color:       r.Color,
		Position:    r.Position,
		Permissions: r.Permissions,
		Mentionable: r.Mentionable,
	}
}

// FromState copies guildID's members and roles out of the discordgo state cache. Users
// are every distinct user the cache knows, members of guildID first.
func FromState(state *discordgo.State, guildID string) (*Snapshot, error) {
	state.RLock()
	defer state.RUnlock()

	var guild *discordgo.Guild
	for _, g := range state.Guilds {
		if g.ID == guildID {
			guild = g
			break
		}
	}
	if guild == nil {
		return nil, discordgo.ErrStateNotFound
	}

	snap := &Snapshot{
		GuildID:   guild.ID,
		GuildName: guild.Name,
		OwnerID:   guild.OwnerID,
		Members:   make([]Member, 0, len(guild.Members)),
		Roles:     make([]Role, 0, len(guild.Roles)),
	}
	for _, m := range guild.Members {
		if m.User == nil {
			continue
		}
		snap.Members = append(snap.Members, NewMember(guild.ID, m))
	}
	for _, r := range guild.Roles {
		snap.Roles = append(snap.Roles, NewRole(r))
	}

	seen := make(map[string]struct{})
	addUsers := func(members []*discordgo.Member) {
		for _, m := range members {
			if m.User == nil {
				continue
			}
			if _, ok := seen[m.User.ID]; ok {
				continue
			}
			seen[m.User.ID] = struct{}{}
			snap.Users = append(snap.Users, NewUser(m.User))
		}
	}
	addUsers(guild.Members)
	for _, g := range state.Guilds {
		if g.ID != guildID {
			addUsers(g.Members)
		}
	}

	return snap, nil
}

// Member returns the member with the given ID.
func (s *Snapshot) Member(id string) (Member, bool) {
	for _, m := range s.Members {
		if m.ID() == id {
			return m, true
		}
	}
	return Member{}, false
}

// HighestRoleColor returns the colour of the member's highest positioned coloured role,
// or 0 when none of its roles is coloured.
func (s *Snapshot) HighestRoleColor(m Member) int {
	roles := s.rolesOf(m)
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Position > roles[j].Position })
	for _, r := range roles {
		if r.Color != 0 {
			return r.Color
		}
	}
	return 0
}

// HasPermission reports whether any role of m grants perm. The guild owner has every permission.
func (s *Snapshot) HasPermission(m Member, perm int64) bool {
	if m.ID() == s.OwnerID && s.OwnerID != "" {
		return true
	}
	for _, r := range s.rolesOf(m) {
		if r.Permissions&perm != 0 || r.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}

func (s *Snapshot) rolesOf(m Member) []Role {
	var out []Role
	for _, id := range m.RoleIDs {
		for _, r := range s.Roles {
			if r.ID == id {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
