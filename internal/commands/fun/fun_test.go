package fun_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/command/commandtest"
	"github.com/kyofu-bot/kyofu/internal/commands/fun"
	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

var (
	author = entity.Member{User: entity.User{ID: "42", Username: "ana"}, GuildID: commandtest.GuildID}
	victor = entity.Member{
		User:    entity.User{ID: "7", Username: "victor_h", GlobalName: "Victor", AvatarURL: "https://cdn.example/7.png"},
		GuildID: commandtest.GuildID,
		Nick:    "Capitaine",
	}
)

func snapshot() *entity.Snapshot {
	return &entity.Snapshot{GuildID: commandtest.GuildID, Members: []entity.Member{author, victor}}
}

func TestFakeReusesNamedWebhook(t *testing.T) {
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.Fake{})
	existing := &discordgo.Webhook{ID: "old", ChannelID: commandtest.ChannelID, Name: "Capitaine"}
	h.Messenger.Webhooks[commandtest.ChannelID] = []*discordgo.Webhook{existing}

	assert.Equal(t, command.OutcomeHandled, h.Send("k!fake <@7> à l'abordage !"))

	assert.Equal(t, []string{"m1"}, h.Messenger.Deleted)
	assert.Empty(t, h.Messenger.Created)
	last := h.Messenger.Last()
	assert.Equal(t, "old", last.Webhook)
	assert.Equal(t, "à l'abordage !", last.Content)
}

func TestFakeCreatesWebhookWithAvatar(t *testing.T) {
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.Fake{})
	h.Messenger.Webhooks[commandtest.ChannelID] = []*discordgo.Webhook{
		{ID: "other", ChannelID: commandtest.ChannelID, Name: "Victor"},
	}

	h.Send("k!impersonate capitaine bonjour")

	require.Len(t, h.Messenger.Created, 1)
	created := h.Messenger.Created[0]
	assert.Equal(t, "Capitaine", created.Name, "nickname wins over global name")
	assert.Equal(t, "https://cdn.example/7.png", created.Avatar)
	assert.Equal(t, created.ID, h.Messenger.Last().Webhook)
	assert.Equal(t, "bonjour", h.Messenger.Last().Content)
	assert.Equal(t, []string{"m1"}, h.Messenger.Deleted)
}

func TestFakeInvalidMember(t *testing.T) {
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.Fake{})

	h.Send("k!fake personne salut")

	assert.Empty(t, h.Messenger.Deleted, "trigger is kept when no member matched")
	assert.Empty(t, h.Messenger.Created)
	last := h.Messenger.Last()
	assert.Equal(t, "m1", last.ReplyTo)
	assert.Equal(t, h.Text("notice.invalid_member", nil), last.Content)
}

func TestFakeWithoutBodyShowsHelp(t *testing.T) {
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.Fake{})

	assert.Equal(t, command.OutcomeHelp, h.Send("k!fake victor"))
	assert.Empty(t, h.Messenger.Deleted, "the help page replies to the trigger, so it stays")
	require.NotNil(t, h.Messenger.Last().Embed)
	assert.Equal(t, h.Text("help.title", map[string]any{"Name": "fake"}), h.Messenger.Last().Embed.Title)
}

func TestRelationLevels(t *testing.T) {
	store := commandtest.NewStore(t)
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.Commands(store)...)

	h.Send("k!hate victor")
	h.Send("k!haine <@7>")
	assert.Equal(t, h.Text("relation.hate", map[string]any{"Author": "ana", "Target": "Capitaine", "Level": 2}), h.Messenger.Last().Content)

	h.Send("k!forgive victor")
	h.Send("k!pardon victor")
	h.Send("k!pardon victor")
	assert.Equal(t, h.Text("relation.forgive", map[string]any{"Author": "ana", "Target": "Capitaine", "Level": 0}), h.Messenger.Last().Content)

	h.Send("k!love capitaine")
	assert.Equal(t, h.Text("relation.love", map[string]any{"Author": "ana", "Target": "Capitaine", "Level": 1}), h.Messenger.Last().Content)

	hate, err := store.Relationship(context.Background(), storage.Hate, "7", "42")
	require.NoError(t, err)
	assert.Zero(t, hate.Level)
	assert.Equal(t, "42-7", hate.Users)
}

func TestRelationRefusesSelf(t *testing.T) {
	store := commandtest.NewStore(t)
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.NewLove(store))

	h.Send("k!love <@42>")

	assert.Equal(t, h.Text("relation.self", nil), h.Messenger.Last().Content)
	lvl, err := store.Relationship(context.Background(), storage.Love, "42", "42")
	require.NoError(t, err)
	assert.Zero(t, lvl.Level)
}

type failingStore struct{}

func (failingStore) AdjustRelationship(context.Context, storage.RelationKind, string, string, int) (*storage.RelationshipLevel, error) {
	return nil, assert.AnError
}

func TestRelationStoreFailure(t *testing.T) {
	h := commandtest.NewHarness(t, nil, snapshot(), author, fun.NewHate(failingStore{}))

	h.Send("k!hate victor")

	assert.Equal(t, h.Text("notice.persistence", nil), h.Messenger.Last().Content)
	assert.Empty(t, h.Reporter.Errs, "persistence faults are not reported to the operator")
}
