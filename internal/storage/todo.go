package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSuchTask is returned when a todo index is out of range.
var ErrNoSuchTask = errors.New("no such task")

func (s *Store) Todo(ctx context.Context, userID string) (*UserTodo, error) {
	return get[UserTodo](ctx, s, KindTodo, userID)
}

func (s *Store) AddTask(ctx context.Context, userID, userName, task string) (*UserTodo, error) {
	init := func() UserTodo { return UserTodo{UserID: userID, UserName: userName} }
	return upsert(ctx, s, KindTodo, userID, init, func(t *UserTodo) error {
		t.UserName = userName
		t.List = append(t.List, task)
		return nil
	})
}

// RemoveTask removes the task at the 1-based position index and returns it.
func (s *Store) RemoveTask(ctx context.Context, userID string, index int) (string, error) {
	var removed string
	_, err := update(ctx, s, KindTodo, userID, func(t *UserTodo) error {
		if index < 1 || index > len(t.List) {
			return fmt.Errorf("%w: %d", ErrNoSuchTask, index)
		}
		removed = t.List[index-1]
		t.List = append(t.List[:index-1], t.List[index:]...)
		return nil
	})
	return removed, err
}

func (s *Store) ClearTodo(ctx context.Context, userID string) error {
	_, err := update(ctx, s, KindTodo, userID, func(t *UserTodo) error {
		t.List = nil
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
