package fun

import (
	"context"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/resolve"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

// RelationStore persists hate and love levels between two users.
type RelationStore interface {
	AdjustRelationship(ctx context.Context, k storage.RelationKind, a, b string, delta int) (*storage.RelationshipLevel, error)
}

// Relation adjusts the hate or love level between the author and a member.
type Relation struct {
	desc   command.Descriptor
	store  RelationStore
	kind   storage.RelationKind
	delta  int
	notice string
}

func NewHate(store RelationStore) *Relation {
	return &Relation{
		desc: command.Descriptor{
			Name:         "hate",
			Aliases:      []string{"haine"},
			Usage:        "hate [membre]",
			Description:  "Augmente ton niveau de haine envers un membre.",
			Category:     config.CategoryFun,
			RequiresArgs: true,
		},
		store:  store,
		kind:   storage.Hate,
		delta:  1,
		notice: "relation.hate",
	}
}

func NewLove(store RelationStore) *Relation {
	return &Relation{
		desc: command.Descriptor{
			Name:         "love",
			Aliases:      []string{"amour"},
			Usage:        "love [membre]",
			Description:  "Augmente ton niveau d'amour envers un membre.",
			Category:     config.CategoryFun,
			RequiresArgs: true,
		},
		store:  store,
		kind:   storage.Love,
		delta:  1,
		notice: "relation.love",
	}
}

// NewForgive lowers the hate level, never below zero.
func NewForgive(store RelationStore) *Relation {
	return &Relation{
		desc: command.Descriptor{
			Name:         "forgive",
			Aliases:      []string{"pardon"},
			Usage:        "forgive [membre]",
			Description:  "Diminue ton niveau de haine envers un membre.",
			Category:     config.CategoryFun,
			RequiresArgs: true,
		},
		store:  store,
		kind:   storage.Hate,
		delta:  -1,
		notice: "relation.forgive",
	}
}

func (r *Relation) Descriptor() command.Descriptor { return r.desc }

func (r *Relation) Run(ctx context.Context, mc *command.MessageContext) error {
	target, ok := resolve.Member(mc.Snapshot(), mc.Query())
	if !ok {
		return command.Invalid("notice.invalid_member")
	}
	author := mc.AuthorMember()
	if target.ID() == author.ID() {
		return command.Refuse("relation.self", nil)
	}

	level, err := r.store.AdjustRelationship(ctx, r.kind, author.ID(), target.ID(), r.delta)
	if err != nil {
		return command.Persistence("adjust "+string(r.kind), err)
	}

	return mc.Send(ctx, mc.Text(r.notice, map[string]any{
		"Author": author.DisplayName(),
		"Target": target.DisplayName(),
		"Level":  level.Level,
	}))
}

// Commands returns every command of the package.
func Commands(store RelationStore) []command.TextCommand {
	return []command.TextCommand{
		Fake{},
		NewHate(store),
		NewLove(store),
		NewForgive(store),
	}
}
