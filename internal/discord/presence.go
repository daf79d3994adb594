package discord

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/pkg/util"
)

const presenceJob = "presence"

// StatusSetter is the slice of the session the rotation needs.
type StatusSetter interface {
	UpdateGameStatus(idle int, name string) error
}

// presenceRunner sets a new status right away and then every interval until ctx ends.
func presenceRunner(s StatusSetter, catalog *msgcat.Catalog, prefix string, interval time.Duration, log *zap.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			status := presenceText(prefix, catalog.List("statuses"))
			if err := s.UpdateGameStatus(0, status); err != nil {
				log.Warn("presence not updated", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}
}

func presenceText(prefix string, statuses []string) string {
	text := prefix + "help"
	if len(statuses) > 0 {
		text += " ─ " + util.Pick(statuses)
	}
	return text
}
