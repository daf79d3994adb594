// Command kyofu-cli inspects and maintains the Kyofu store without starting the bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/logger"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openStore).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// opener opens the store a command works on. Tests substitute a temporary one.
type opener func(ctx context.Context, verbose bool) (*storage.Store, string, error)

func openStore(ctx context.Context, verbose bool) (*storage.Store, string, error) {
	cfg, err := config.NewStore()
	if err != nil {
		return nil, "", err
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Level: level})
	store, err := storage.Open(ctx, cfg.StorageOptions(), log.Named("store"))
	if err != nil {
		return nil, "", err
	}
	return store, cfg.RefdataPath, nil
}

// app carries the store opened by the root command to its subcommands.
type app struct {
	open    opener
	verbose bool

	store   *storage.Store
	refdata string
	log     *zap.Logger
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open, log: zap.NewNop()}

	root := &cobra.Command{
		Use:          "kyofu-cli",
		Short:        "Maintain the Kyofu profile store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			store, refdata, err := a.open(cmd.Context(), a.verbose)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			a.store, a.refdata = store, refdata
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log store activity")

	root.AddCommand(
		a.seedCmd(),
		a.dumpCmd(),
		a.resetXPCmd(),
		a.guildCmd(),
	)
	return root
}
