package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"planner/model"
	"planner/repository"
	"planner/session"
)

// ListStore caches the owner's todo lists together with their todos.
// Unlike TaskStore.Update, todo mutations apply locally only after the
// remote write succeeded.
type ListStore struct {
	repo repository.ListRepository
	sess session.Session
	log  *logrus.Logger

	mu      sync.RWMutex
	lists   []model.TodoList
	lastErr error
}

func NewListStore(repo repository.ListRepository, sess session.Session, log *logrus.Logger) *ListStore {
	return &ListStore{repo: repo, sess: sess, log: log}
}

// Lists returns a snapshot copy, todos included.
func (s *ListStore) Lists() []model.TodoList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TodoList, len(s.lists))
	for i, l := range s.lists {
		l.Todos = append([]model.Todo(nil), l.Todos...)
		out[i] = l
	}
	return out
}

func (s *ListStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LoadLists fetches the owner's lists in creation order and populates
// each list's todos.
func (s *ListStore) LoadLists(ctx context.Context) error {
	if !s.sess.Authenticated() {
		return nil
	}

	lists, err := s.repo.Lists(ctx, s.sess.UserID)
	if err != nil {
		wrapped := fmt.Errorf("failed to load lists: %w", err)
		s.setErr(wrapped)
		return wrapped
	}

	for i := range lists {
		todos, err := s.repo.Todos(ctx, lists[i].ListID, s.sess.UserID)
		if err != nil {
			wrapped := fmt.Errorf("failed to load todos: %w", err)
			s.setErr(wrapped)
			return wrapped
		}
		lists[i].Todos = todos
	}

	s.mu.Lock()
	s.lists = lists
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

func (s *ListStore) AddList(ctx context.Context, name, color string) (*model.TodoList, error) {
	if !s.sess.Authenticated() {
		return nil, nil
	}

	s.clearErr()

	created, err := s.repo.InsertList(ctx, model.TodoList{
		OwnerID: s.sess.UserID,
		Name:    name,
		Color:   color,
	})
	if err != nil {
		wrapped := fmt.Errorf("failed to add list: %w", err)
		s.setErr(wrapped)
		return nil, wrapped
	}

	s.mu.Lock()
	s.lists = append(s.lists, created)
	s.mu.Unlock()
	return &created, nil
}

// AddTodo appends a todo to the given list only. An unknown list id is a
// silent no-op.
func (s *ListStore) AddTodo(ctx context.Context, listID, title string) (*model.Todo, error) {
	if !s.sess.Authenticated() {
		return nil, nil
	}
	if !s.hasList(listID) {
		return nil, nil
	}

	s.clearErr()

	created, err := s.repo.InsertTodo(ctx, model.Todo{
		ListID:  listID,
		OwnerID: s.sess.UserID,
		Title:   title,
	})
	if err != nil {
		wrapped := fmt.Errorf("failed to add todo: %w", err)
		s.setErr(wrapped)
		return nil, wrapped
	}

	s.mu.Lock()
	for i := range s.lists {
		if s.lists[i].ListID == listID {
			s.lists[i].Todos = append(s.lists[i].Todos, created)
			break
		}
	}
	s.mu.Unlock()
	return &created, nil
}

func (s *ListStore) ToggleTodo(ctx context.Context, listID, todoID string) error {
	if !s.sess.Authenticated() {
		return nil
	}

	completed, found := s.todoState(listID, todoID)
	if !found {
		return nil
	}

	s.clearErr()

	if err := s.repo.UpdateTodo(ctx, todoID, s.sess.UserID, map[string]any{"completed": !completed}); err != nil {
		wrapped := fmt.Errorf("failed to toggle todo: %w", err)
		s.setErr(wrapped)
		return wrapped
	}

	s.mu.Lock()
	for i := range s.lists {
		if s.lists[i].ListID != listID {
			continue
		}
		for j := range s.lists[i].Todos {
			if s.lists[i].Todos[j].TodoID == todoID {
				s.lists[i].Todos[j].Completed = !completed
				break
			}
		}
		break
	}
	s.mu.Unlock()
	return nil
}

func (s *ListStore) RemoveTodo(ctx context.Context, listID, todoID string) error {
	if !s.sess.Authenticated() {
		return nil
	}
	if _, found := s.todoState(listID, todoID); !found {
		return nil
	}

	s.clearErr()

	if err := s.repo.DeleteTodo(ctx, todoID, s.sess.UserID); err != nil {
		wrapped := fmt.Errorf("failed to delete todo: %w", err)
		s.setErr(wrapped)
		return wrapped
	}

	s.mu.Lock()
	for i := range s.lists {
		if s.lists[i].ListID != listID {
			continue
		}
		kept := s.lists[i].Todos[:0]
		for _, t := range s.lists[i].Todos {
			if t.TodoID != todoID {
				kept = append(kept, t)
			}
		}
		s.lists[i].Todos = kept
		break
	}
	s.mu.Unlock()
	return nil
}

func (s *ListStore) hasList(listID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if l.ListID == listID {
			return true
		}
	}
	return false
}

func (s *ListStore) todoState(listID, todoID string) (completed, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if l.ListID != listID {
			continue
		}
		for _, t := range l.Todos {
			if t.TodoID == todoID {
				return t.Completed, true
			}
		}
	}
	return false, false
}

func (s *ListStore) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *ListStore) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.log.WithError(err).WithField("owner", s.sess.UserID).Error("list store")
}
