package commandtest

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/internal/storage"
	"github.com/kyofu-bot/kyofu/pkg/cmd"
)

const (
	GuildID     = "g1"
	ChannelID   = "c1"
	DeveloperID = "dev"
	Prefix      = "k!"
)

// StaticSettings serves the same profile to every guild.
type StaticSettings struct {
	Profile storage.GuildProfile
}

func (s StaticSettings) GuildSettings(_ context.Context, guildID string) storage.GuildProfile {
	p := s.Profile
	p.GuildID = guildID
	if p.Prefix == "" {
		p.Prefix = Prefix
	}
	return p
}

// Reporter records operator reports.
type Reporter struct {
	mu   sync.Mutex
	Errs []error
}

func (r *Reporter) Report(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errs = append(r.Errs, err)
}

// Harness runs commands through a real registry and dispatcher.
type Harness struct {
	Messenger  *Messenger
	Registry   *cmd.Registry
	Dispatcher *command.Dispatcher
	Reporter   *Reporter
	Catalog    *msgcat.Catalog
	Snapshot   *entity.Snapshot
	Author     entity.Member

	seq int
}

// NewHarness registers cmds behind the access check and builds a dispatcher. settings
// may be nil for the default prefix.
func NewHarness(t testing.TB, settings command.GuildSettings, snap *entity.Snapshot, author entity.Member, cmds ...command.TextCommand) *Harness {
	t.Helper()
	if settings == nil {
		settings = StaticSettings{}
	}
	if snap == nil {
		snap = &entity.Snapshot{GuildID: GuildID}
	}

	h := &Harness{
		Messenger: NewMessenger(),
		Registry:  cmd.NewRegistry(),
		Reporter:  &Reporter{},
		Catalog:   msgcat.MustDefault(),
		Snapshot:  snap,
		Author:    author,
	}
	require.NoError(t, command.Register(h.Registry, []cmd.Middleware{command.WithAccessCheck(DeveloperID)}, cmds...))

	h.Dispatcher = command.NewDispatcher(command.Deps{
		Registry:  h.Registry,
		Settings:  settings,
		Messenger: h.Messenger,
		Catalog:   h.Catalog,
		Reporter:  h.Reporter,
		Log:       zaptest.NewLogger(t),
	})
	return h
}

// Incoming builds a guild text message from the harness author.
func (h *Harness) Incoming(content string) *command.Incoming {
	h.seq++
	author := h.Author
	return &command.Incoming{
		GuildID:     GuildID,
		ChannelID:   ChannelID,
		ChannelName: "général",
		MessageID:   "m" + strconv.Itoa(h.seq),
		Kind:        command.ChannelGuildText,
		Author:      author.User,
		Member:      &author,
		Content:     content,
		Snapshot:    func() *entity.Snapshot { return h.Snapshot },
	}
}

// Send dispatches content as a message from the harness author.
func (h *Harness) Send(content string) command.Outcome {
	return h.Dispatcher.Dispatch(context.Background(), h.Incoming(content))
}

// Text renders a catalog message the way handlers do.
func (h *Harness) Text(key string, data any) string {
	return h.Catalog.Text(key, data)
}

// NewStore opens a store over a file backend in a temp dir, closed at cleanup.
func NewStore(t testing.TB) *storage.Store {
	t.Helper()
	backend, err := storage.OpenFile(filepath.Join(t.TempDir(), "kyofu.json"), nil)
	require.NoError(t, err)
	s := storage.New(backend, Prefix, nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}
