package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kyofu-bot/kyofu/internal/refdata"
	"github.com/kyofu-bot/kyofu/internal/rpg"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

func (a *app) seedCmd() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "seed",
		Short: "Write the RPG reference data (zones, pnjs, items) into the store",
		Long: `Load the reference data and replace the stored zones, pnjs and items.

The file defaults to REFDATA_PATH; the data shipped with the bot is used when the
file does not exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = a.refdata
			}
			data, err := refdata.Load(file)
			if err != nil {
				return err
			}
			if err := refdata.Seed(cmd.Context(), a.store, data, a.log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d zones, %d pnjs, %d items\n", len(data.Zones), len(data.Pnjs), len(data.Items))
			return nil
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "reference data TOML file")
	return c
}

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [kind...]",
		Short: "Print stored records as YAML",
		Long:  fmt.Sprintf("Print every record of the given kinds, or of all kinds.\n\nKinds: %v", storage.Kinds),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := storage.Kinds
			if len(args) > 0 {
				kinds = nil
				for _, arg := range args {
					k := storage.Kind(arg)
					if !slices.Contains(storage.Kinds, k) {
						return fmt.Errorf("unknown kind %q", arg)
					}
					kinds = append(kinds, k)
				}
			}

			out := cmd.OutOrStdout()
			for _, k := range kinds {
				err := a.store.Backend().Scan(cmd.Context(), k, func(key string, decode storage.Decoder) error {
					var doc map[string]any
					if err := decode(&doc); err != nil {
						return fmt.Errorf("%s/%s: %w", k, key, err)
					}
					raw, err := yaml.Marshal(doc)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "--- # %s/%s\n%s", k, key, raw)
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) resetXPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-xp <user-id>",
		Short: "Set the experience of an RPG player back to zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := rpg.NewService(a.store, a.log).ResetXP(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "xp of %s reset\n", u.UserName)
			return nil
		},
	}
}

func (a *app) guildCmd() *cobra.Command {
	guild := &cobra.Command{
		Use:   "guild",
		Short: "Inspect or remove guild profiles",
	}

	show := &cobra.Command{
		Use:   "show <guild-id>",
		Short: "Print a guild profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.store.Guild(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("guild %s has no profile", args[0])
			}
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(g)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}

	del := &cobra.Command{
		Use:   "delete <guild-id>",
		Short: "Delete a guild profile; the bot recreates a default one on its next start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteGuild(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "guild %s deleted\n", args[0])
			return nil
		},
	}

	guild.AddCommand(show, del)
	return guild
}
