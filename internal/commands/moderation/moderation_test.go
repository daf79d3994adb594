package moderation

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/command/commandtest"
	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

var (
	moderator = entity.Member{User: entity.User{ID: "1", Username: "amirale"}, GuildID: commandtest.GuildID}
	pirate    = entity.Member{User: entity.User{ID: "2", Username: "barbe_noire"}, GuildID: commandtest.GuildID, Nick: "Barbe Noire"}
)

func snapshot() *entity.Snapshot {
	return &entity.Snapshot{
		GuildID:   commandtest.GuildID,
		GuildName: "Isonvale",
		OwnerID:   moderator.ID(),
		Members:   []entity.Member{moderator, pirate},
	}
}

func newHarness(t *testing.T, author entity.Member) (*commandtest.Harness, *storage.Store) {
	t.Helper()
	store := commandtest.NewStore(t)

	warn := NewWarn(store)
	seq := 0
	warn.newID = func() string { seq++; return "w" + strconv.Itoa(seq) }
	warn.now = func() time.Time { return time.Date(2024, 3, 9, 21, 30, 0, 0, time.UTC) }

	h := commandtest.NewHarness(t, nil, snapshot(), author, warn, NewWarns(store), NewUnwarn(store))
	return h, store
}

func TestWarnAndList(t *testing.T) {
	h, store := newHarness(t, moderator)

	h.Send("k!warn <@2> pillage du port")
	assert.Equal(t, h.Text("warn.added", map[string]any{"Target": "Barbe Noire", "Count": 1}), h.Messenger.Last().Content)
	h.Send("k!warn barbe")
	assert.Equal(t, h.Text("warn.added", map[string]any{"Target": "Barbe Noire", "Count": 2}), h.Messenger.Last().Content)

	profile, err := store.Member(context.Background(), commandtest.GuildID, "2")
	require.NoError(t, err)
	require.Len(t, profile.Warns, 2)
	assert.Equal(t, storage.Warn{ID: "w1", ModeratorID: "1", Reason: "pillage du port", At: time.Date(2024, 3, 9, 21, 30, 0, 0, time.UTC)}, profile.Warns[0])
	assert.Equal(t, "Isonvale", profile.GuildName)
	assert.Equal(t, "barbe_noire", profile.UserName)

	h.Send("k!infractions Barbe Noire")
	embed := h.Messenger.Last().Embed
	require.NotNil(t, embed)
	assert.Equal(t, h.Text("warn.title", map[string]any{"Target": "Barbe Noire"}), embed.Title)
	first := h.Text("warn.entry", map[string]any{"ID": "w1", "Date": "09/03/2024 à 21:30", "Moderator": "1", "Reason": "pillage du port"})
	second := h.Text("warn.entry", map[string]any{"ID": "w2", "Date": "09/03/2024 à 21:30", "Moderator": "1", "Reason": h.Text("warn.no_reason", nil)})
	assert.Equal(t, first+"\n"+second, embed.Description)
}

func TestWarnsWithoutRecord(t *testing.T) {
	h, _ := newHarness(t, pirate)

	h.Send("k!warns")
	assert.Equal(t, h.Text("warn.none", map[string]any{"Target": "Barbe Noire"}), h.Messenger.Last().Content)

	h.Send("k!warns personne")
	assert.Equal(t, h.Text("notice.invalid_member", nil), h.Messenger.Last().Content)
}

func TestWarnRules(t *testing.T) {
	h, _ := newHarness(t, moderator)

	h.Send("k!warn <@1> test")
	assert.Equal(t, h.Text("warn.self", nil), h.Messenger.Last().Content)

	h.Send("k!warn inconnu test")
	assert.Equal(t, h.Text("notice.invalid_member", nil), h.Messenger.Last().Content)

	assert.Equal(t, command.OutcomeHelp, h.Send("k!warn"))
}

func TestWarnRequiresAdmin(t *testing.T) {
	h, store := newHarness(t, pirate)

	h.Send("k!warn <@1> mutinerie")

	assert.Equal(t, h.Text("notice.admin_only", nil), h.Messenger.Last().Content)
	_, err := store.Member(context.Background(), commandtest.GuildID, "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUnwarn(t *testing.T) {
	h, store := newHarness(t, moderator)
	h.Send("k!warn <@2> abordage")

	h.Send("k!unwarn <@2> w9")
	assert.Equal(t, h.Text("warn.not_found", map[string]any{"ID": "w9"}), h.Messenger.Last().Content)

	h.Send("k!unwarn <@2> w1")
	assert.Equal(t, h.Text("warn.removed", map[string]any{"ID": "w1"}), h.Messenger.Last().Content)

	profile, err := store.Member(context.Background(), commandtest.GuildID, "2")
	require.NoError(t, err)
	assert.Empty(t, profile.Warns)

	h.Send("k!unwarn <@1> w1")
	assert.Equal(t, h.Text("warn.not_found", map[string]any{"ID": "w1"}), h.Messenger.Last().Content, "member without profile")

	assert.Equal(t, command.OutcomeHelp, h.Send("k!unwarn <@2>"))
}

func TestWarnIDsAreShort(t *testing.T) {
	a, b := newWarnID(), newWarnID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
