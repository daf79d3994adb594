package utility

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

// Todo keeps a per-user task list, shared across guilds.
type Todo struct {
	store Store
}

func NewTodo(store Store) *Todo { return &Todo{store: store} }

func (t *Todo) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "todo",
		Aliases:     []string{"td"},
		Usage:       "todo <add/remove/clear> <tâche>",
		Description: "Gère ta liste de tâches. Sans argument, affiche la liste.",
		Category:    config.CategoryUtility,
	}
}

func (t *Todo) Run(ctx context.Context, mc *command.MessageContext) error {
	if len(mc.Args) == 0 {
		return t.list(ctx, mc)
	}

	author := mc.Author()
	rest := strings.Join(mc.Args[1:], " ")

	switch strings.ToLower(mc.Args[0]) {
	case "add":
		if rest == "" {
			return command.MissingArgument()
		}
		if _, err := t.store.AddTask(ctx, author.ID, author.Tag(), rest); err != nil {
			return command.Persistence("add task", err)
		}
		return mc.ReplyText(ctx, "todo.added", map[string]any{"Task": rest})

	case "remove":
		index, err := strconv.Atoi(rest)
		if err != nil {
			return command.Refuse("todo.invalid_index", nil)
		}
		task, err := t.store.RemoveTask(ctx, author.ID, index)
		switch {
		case errors.Is(err, storage.ErrNoSuchTask), errors.Is(err, storage.ErrNotFound):
			return command.Refuse("todo.invalid_index", nil)
		case err != nil:
			return command.Persistence("remove task", err)
		}
		return mc.ReplyText(ctx, "todo.removed", map[string]any{"Task": task})

	case "clear":
		if err := t.store.ClearTodo(ctx, author.ID); err != nil {
			return command.Persistence("clear todo", err)
		}
		return mc.ReplyText(ctx, "todo.cleared", nil)
	}
	return command.Refuse("todo.invalid_action", nil)
}

func (t *Todo) list(ctx context.Context, mc *command.MessageContext) error {
	author := mc.Author()
	todo, err := t.store.Todo(ctx, author.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return command.Persistence("load todo", err)
	}

	var lines []string
	if todo != nil {
		for i, task := range todo.List {
			lines = append(lines, "`"+strconv.Itoa(i+1)+".` "+task)
		}
	}
	desc := strings.Join(lines, "\n")
	if desc == "" {
		desc = mc.Text("todo.empty", nil)
	}

	return mc.SendEmbed(ctx, &discordgo.MessageEmbed{
		Title:       mc.Text("todo.title", map[string]any{"Name": mc.AuthorMember().DisplayName()}),
		Description: desc,
		Color:       mc.Color(),
	})
}
