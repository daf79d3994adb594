package storage

import (
	"strings"
	"time"
)

// Greeting is a join or leave announcement. An empty ChannelID disables it.
type Greeting struct {
	ChannelID string `json:"channel" bson:"channel"`
	Message   string `json:"message" bson:"message"`
}

func (g Greeting) Enabled() bool { return g.ChannelID != "" && g.Message != "" }

// Render replaces {user} and {guild} in the message.
func (g Greeting) Render(userMention, guildName string) string {
	return strings.NewReplacer("{user}", userMention, "{guild}", guildName).Replace(g.Message)
}

type GuildProfile struct {
	GuildID   string   `json:"guildID" bson:"guildID"`
	GuildName string   `json:"guildName" bson:"guildName"`
	Prefix    string   `json:"prefix" bson:"prefix"`
	Join      Greeting `json:"join" bson:"join"`
	Leave     Greeting `json:"leave" bson:"leave"`
}

// GuildPatch lists the fields UpdateGuild may change; nil fields are left alone.
type GuildPatch struct {
	GuildName *string
	Prefix    *string
	Join      *Greeting
	Leave     *Greeting
}

type Warn struct {
	ID          string    `json:"id" bson:"id"`
	ModeratorID string    `json:"moderatorID" bson:"moderatorID"`
	Reason      string    `json:"reason" bson:"reason"`
	At          time.Time `json:"at" bson:"at"`
}

type MemberProfile struct {
	UserID    string `json:"userID" bson:"userID"`
	UserName  string `json:"userName" bson:"userName"`
	GuildID   string `json:"guildID" bson:"guildID"`
	GuildName string `json:"guildName" bson:"guildName"`
	Warns     []Warn `json:"warns" bson:"warns"`
}

type UserTodo struct {
	UserID   string   `json:"userID" bson:"userID"`
	UserName string   `json:"userName" bson:"userName"`
	List     []string `json:"list" bson:"list"`
}

// RelationKind selects the hate or love collection.
type RelationKind string

const (
	Hate RelationKind = "hate"
	Love RelationKind = "love"
)

type RelationshipLevel struct {
	Users string `json:"users" bson:"users"`
	Level int    `json:"level" bson:"level"`
}

type HP struct {
	Level int `json:"level" bson:"level"`
	Max   int `json:"max" bson:"max"`
}

type InventoryItem struct {
	Name     string `json:"name" bson:"name"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

type RpgProfile struct {
	Color string `json:"color" bson:"color"`
}

type QuestProgress struct {
	Name string `json:"name" bson:"name"`
	Step int    `json:"step" bson:"step"`
	Done bool   `json:"done" bson:"done"`
}

type RpgUser struct {
	UserID   string          `json:"userID" bson:"userID"`
	UserName string          `json:"userName" bson:"userName"`
	XP       int             `json:"xp" bson:"xp"`
	HP       HP              `json:"hp" bson:"hp"`
	Coins    int             `json:"coins" bson:"coins"`
	Items    []InventoryItem `json:"items" bson:"items"`
	Profile  RpgProfile      `json:"profile" bson:"profile"`
	Position string          `json:"position" bson:"position"`
	Quests   []QuestProgress `json:"quests" bson:"quests"`
}

type Zone struct {
	Name        string   `json:"name" bson:"name" toml:"name"`
	Description string   `json:"description" bson:"description" toml:"description"`
	Color       string   `json:"color" bson:"color" toml:"color"`
	Image       string   `json:"image" bson:"image" toml:"image"`
	Neighbours  []string `json:"neighbours" bson:"neighbours" toml:"neighbours"`
}

type Pnj struct {
	Name    string   `json:"name" bson:"name" toml:"name"`
	Color   string   `json:"color" bson:"color" toml:"color"`
	Image   string   `json:"img" bson:"img" toml:"image"`
	Zone    string   `json:"zone" bson:"zone" toml:"zone"`
	Dialogs []string `json:"dialogs" bson:"dialogs" toml:"dialogs"`
}

type Item struct {
	Name        string `json:"name" bson:"name" toml:"name"`
	Emoji       string `json:"emoji" bson:"emoji" toml:"emoji"`
	Description string `json:"description" bson:"description" toml:"description"`
	Price       int    `json:"price" bson:"price" toml:"price"`
}
