// Package fun holds the light-hearted commands: impersonation and the hate/love counters.
package fun

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/resolve"
)

// Fake posts a message under the name and avatar of another member through a channel webhook.
type Fake struct{}

func (Fake) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "fake",
		Aliases:      []string{"impersonate"},
		Usage:        "fake [membre] [message]",
		Description:  "Envoie un message sous l'identité d'un membre.",
		Category:     config.CategoryFun,
		Image:        "https://image.flaticon.com/icons/png/512/1750/1750186.png",
		RequiresArgs: true,
	}
}

func (Fake) Run(ctx context.Context, mc *command.MessageContext) error {
	member, ok := resolve.Member(mc.Snapshot(), mc.Args[0])
	if !ok {
		return command.Invalid("notice.invalid_member")
	}

	body := strings.Join(mc.Args[1:], " ")
	if body == "" {
		return command.MissingArgument()
	}

	// The help page replies to the trigger, which must still exist.
	in := mc.Incoming
	if err := mc.Messenger.Delete(ctx, in.ChannelID, in.MessageID); err != nil {
		mc.Log.Warn("trigger message not deleted", zap.Error(err))
	}

	name := member.DisplayName()
	hooks, err := mc.Messenger.ChannelWebhooks(ctx, in.ChannelID)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}
	for _, wh := range hooks {
		if wh.Name == name {
			return mc.Messenger.ExecuteWebhook(ctx, wh, body)
		}
	}

	// Two concurrent runs may both get here and create a webhook each.
	wh, err := mc.Messenger.CreateWebhook(ctx, in.ChannelID, name, member.User.AvatarURL)
	if err != nil {
		return fmt.Errorf("create webhook: %w", err)
	}
	return mc.Messenger.ExecuteWebhook(ctx, wh, body)
}
