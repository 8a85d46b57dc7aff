package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"planner/model"
)

// MemoryRepository is a mutex-guarded in-memory implementation used for
// local development and tests. The Fail* fields inject a one-shot error
// into the next matching call so remote-failure paths can be exercised.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	lists map[string]model.TodoList
	todos map[string]model.Todo

	FailList   error
	FailInsert error
	FailUpdate error
	FailDelete error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[string]model.Task),
		lists: make(map[string]model.TodoList),
		todos: make(map[string]model.Todo),
	}
}

func (r *MemoryRepository) takeFailure(slot *error) error {
	err := *slot
	*slot = nil
	return err
}

func (r *MemoryRepository) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailList); err != nil {
		return nil, err
	}

	var out []model.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailInsert); err != nil {
		return model.Task{}, err
	}

	now := time.Now()
	t.TaskID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.TaskID] = t
	return t, nil
}

func (r *MemoryRepository) UpdateFields(ctx context.Context, id, ownerID string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailUpdate); err != nil {
		return err
	}

	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}

	for path, value := range fields {
		switch path {
		case "title":
			t.Title = value.(string)
		case "description":
			t.Description = value.(string)
		case "completed":
			t.Completed = value.(bool)
		case "priority":
			t.Priority = value.(model.Priority)
		case "duedate":
			t.DueDate = value.(*time.Time)
		case "category":
			t.Category = value.(string)
		case "recurring":
			t.Recurring = value.(*model.Recurring)
		case "subtasks":
			t.Subtasks = value.([]model.Subtask)
		case "notifications":
			t.Notifications = value.(model.NotificationPrefs)
		}
	}

	// updatedat only moves forward, matching the remote store contract.
	if now := time.Now(); now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
	r.tasks[id] = t
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailDelete); err != nil {
		return err
	}

	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepository) Lists(ctx context.Context, ownerID string) ([]model.TodoList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailList); err != nil {
		return nil, err
	}

	var out []model.TodoList
	for _, l := range r.lists {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) InsertList(ctx context.Context, l model.TodoList) (model.TodoList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailInsert); err != nil {
		return model.TodoList{}, err
	}

	l.ListID = uuid.New().String()
	l.CreatedAt = time.Now()
	l.Todos = nil
	r.lists[l.ListID] = l
	return l, nil
}

func (r *MemoryRepository) Todos(ctx context.Context, listID, ownerID string) ([]model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailList); err != nil {
		return nil, err
	}

	var out []model.Todo
	for _, t := range r.todos {
		if t.ListID == listID && t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) InsertTodo(ctx context.Context, t model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailInsert); err != nil {
		return model.Todo{}, err
	}

	t.TodoID = uuid.New().String()
	t.CreatedAt = time.Now()
	r.todos[t.TodoID] = t
	return t, nil
}

func (r *MemoryRepository) UpdateTodo(ctx context.Context, id, ownerID string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailUpdate); err != nil {
		return err
	}

	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}
	for path, value := range fields {
		switch path {
		case "title":
			t.Title = value.(string)
		case "completed":
			t.Completed = value.(bool)
		}
	}
	r.todos[id] = t
	return nil
}

func (r *MemoryRepository) DeleteTodo(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(&r.FailDelete); err != nil {
		return err
	}

	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.todos, id)
	return nil
}
