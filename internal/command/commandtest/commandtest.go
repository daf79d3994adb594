// Package commandtest provides an in-memory Messenger and helpers for command tests.
package commandtest

import (
	"context"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Sent is one message recorded by the Messenger.
type Sent struct {
	ChannelID string
	ReplyTo   string
	Content   string
	Embed     *discordgo.MessageEmbed
	Webhook   string // webhook ID for executed webhooks
}

// Messenger records every outbound call. Err, when set, is returned by every call.
type Messenger struct {
	mu       sync.Mutex
	Sent     []Sent
	Deleted  []string
	Webhooks map[string][]*discordgo.Webhook // by channel
	Created  []*discordgo.Webhook
	Err      error
}

func NewMessenger() *Messenger {
	return &Messenger{Webhooks: make(map[string][]*discordgo.Webhook)}
}

func (m *Messenger) record(s Sent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, s)
	return nil
}

func (m *Messenger) Send(_ context.Context, channelID, content string) error {
	return m.record(Sent{ChannelID: channelID, Content: content})
}

func (m *Messenger) SendEmbed(_ context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	return m.record(Sent{ChannelID: channelID, Embed: embed})
}

func (m *Messenger) Reply(_ context.Context, channelID, messageID, content string) error {
	return m.record(Sent{ChannelID: channelID, ReplyTo: messageID, Content: content})
}

func (m *Messenger) Delete(_ context.Context, _, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, messageID)
	return nil
}

func (m *Messenger) ChannelWebhooks(_ context.Context, channelID string) ([]*discordgo.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]*discordgo.Webhook(nil), m.Webhooks[channelID]...), nil
}

func (m *Messenger) CreateWebhook(_ context.Context, channelID, name, avatarURL string) (*discordgo.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	wh := &discordgo.Webhook{
		ID:        "wh" + strconv.Itoa(len(m.Created)+1),
		ChannelID: channelID,
		Name:      name,
		Avatar:    avatarURL,
		Token:     "token",
	}
	m.Webhooks[channelID] = append(m.Webhooks[channelID], wh)
	m.Created = append(m.Created, wh)
	return wh, nil
}

func (m *Messenger) ExecuteWebhook(_ context.Context, webhook *discordgo.Webhook, content string) error {
	return m.record(Sent{ChannelID: webhook.ChannelID, Content: content, Webhook: webhook.ID})
}

// Messages returns a copy of everything sent so far.
func (m *Messenger) Messages() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sent(nil), m.Sent...)
}

// Last returns the last sent message, or the zero Sent.
func (m *Messenger) Last() Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return Sent{}
	}
	return m.Sent[len(m.Sent)-1]
}
