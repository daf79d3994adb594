package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/pkg/retrylimit"
)

// maxReportLen keeps a report inside one Discord message.
const maxReportLen = 1900

// Reporter posts unexpected faults to the operator channel.
type Reporter struct {
	channelID string
	messenger command.Messenger
	log       *zap.Logger
}

func NewReporter(channelID string, messenger command.Messenger, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{channelID: channelID, messenger: messenger, log: log}
}

// Report sends err to the operator channel. REST failures are skipped: they come from
// Discord itself and would only loop back into the same channel.
func (r *Reporter) Report(ctx context.Context, err error) {
	if r.channelID == "" || err == nil || retrylimit.StatusCode(err) != 0 {
		return
	}
	if serr := r.messenger.Send(ctx, r.channelID, formatReport(err)); serr != nil {
		r.log.Warn("error report not delivered", zap.Error(serr))
	}
}

// formatReport renders "Uh! A(n) <Type>..." followed by the detail in a code block.
func formatReport(err error) string {
	kind, detail := "Panic", ""
	var perr *command.PanicError
	if errors.As(err, &perr) {
		detail = fmt.Sprintf("%v\n\n%s", perr.Value, perr.Stack)
	} else {
		kind = errorType(err)
		detail = err.Error()
	}

	head := "Uh! " + article(kind) + " " + kind + "...\n```\n"
	tail := "\n```"
	if room := maxReportLen - len(head) - len(tail); len(detail) > room {
		detail = truncate(detail, room)
	}
	return head + detail + tail
}

// errorType names the innermost wrapped error.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "An"
	}
	return "A"
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
