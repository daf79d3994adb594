package utility

import (
	"context"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
)

type Help struct{}

func (Help) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "help",
		Aliases:     []string{"h", "aide"},
		Usage:       "help <commande>",
		Description: "Affiche la liste des commandes ou l'aide d'une commande.",
		Category:    config.CategoryInformation,
	}
}

func (Help) Run(ctx context.Context, mc *command.MessageContext) error {
	if len(mc.Args) > 0 {
		return mc.Help(ctx, mc.Args[0])
	}
	return mc.HelpList(ctx)
}
