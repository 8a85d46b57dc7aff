// Package store holds the owner-scoped caches that sit between the UI
// surface and the remote record store. Mutations apply optimistically:
// the cache is the source of truth for reads until the next Load, even
// when a remote write has failed.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"planner/model"
	"planner/repository"
	"planner/session"
)

var ErrInvalidTask = errors.New("task must have a title and a valid priority")

// TaskPatch is a partial task update. A nil field means "leave unchanged".
type TaskPatch struct {
	Title         *string
	Description   *string
	Completed     *bool
	Priority      *model.Priority
	DueDate       *time.Time
	Category      *string
	Recurring     *model.Recurring
	Subtasks      *[]model.Subtask
	Notifications *model.NotificationPrefs
}

func (p TaskPatch) fields() map[string]any {
	fields := make(map[string]any)
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Completed != nil {
		fields["completed"] = *p.Completed
	}
	if p.Priority != nil {
		fields["priority"] = *p.Priority
	}
	if p.DueDate != nil {
		fields["duedate"] = p.DueDate
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.Recurring != nil {
		fields["recurring"] = p.Recurring
	}
	if p.Subtasks != nil {
		fields["subtasks"] = *p.Subtasks
	}
	if p.Notifications != nil {
		fields["notifications"] = *p.Notifications
	}
	return fields
}

func (p TaskPatch) apply(t *model.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Recurring != nil {
		t.Recurring = p.Recurring
	}
	if p.Subtasks != nil {
		t.Subtasks = *p.Subtasks
	}
	if p.Notifications != nil {
		t.Notifications = *p.Notifications
	}
	t.UpdatedAt = time.Now()
}

// TaskStore caches the current owner's tasks, newest first, and keeps
// them synchronized with the remote repository. With an unauthenticated
// session every operation is an inert no-op.
type TaskStore struct {
	repo repository.TaskRepository
	sess session.Session
	log  *logrus.Logger

	mu      sync.RWMutex
	tasks   []model.Task
	lastErr error
}

func NewTaskStore(repo repository.TaskRepository, sess session.Session, log *logrus.Logger) *TaskStore {
	return &TaskStore{repo: repo, sess: sess, log: log}
}

// Tasks returns a snapshot copy of the cache.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Err reports the most recent store-level failure, for the general error
// banner. It is cleared at the start of every operation.
func (s *TaskStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Load replaces the cache wholesale with the owner's tasks, newest
// first. On failure the cache is left empty and the error is recorded.
func (s *TaskStore) Load(ctx context.Context) error {
	if !s.sess.Authenticated() {
		return nil
	}

	tasks, err := s.repo.List(ctx, s.sess.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.tasks = nil
		s.lastErr = fmt.Errorf("failed to load tasks: %w", err)
		s.log.WithError(err).WithField("owner", s.sess.UserID).Error("load tasks")
		return s.lastErr
	}
	s.tasks = tasks
	s.lastErr = nil
	return nil
}

// Add persists a draft and prepends the stored record to the cache. On
// failure the cache is untouched and the error is returned so the caller
// can keep its form open.
func (s *TaskStore) Add(ctx context.Context, draft model.Task) (*model.Task, error) {
	if !s.sess.Authenticated() {
		return nil, nil
	}
	if draft.Title == "" || !draft.Priority.Valid() {
		return nil, ErrInvalidTask
	}

	s.clearErr()
	draft.OwnerID = s.sess.UserID

	created, err := s.repo.Insert(ctx, draft)
	if err != nil {
		wrapped := fmt.Errorf("failed to add task: %w", err)
		s.setErr(wrapped)
		return nil, wrapped
	}

	s.mu.Lock()
	s.tasks = append([]model.Task{created}, s.tasks...)
	s.mu.Unlock()
	return &created, nil
}

// Update merges a partial change into the cached task and issues the
// remote write. The local merge is not reverted when the remote write
// fails; the cache may diverge until the next Load.
func (s *TaskStore) Update(ctx context.Context, id string, patch TaskPatch) error {
	if !s.sess.Authenticated() {
		return nil
	}

	s.clearErr()

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].TaskID == id {
			patch.apply(&s.tasks[i])
			break
		}
	}
	s.mu.Unlock()

	if err := s.repo.UpdateFields(ctx, id, s.sess.UserID, patch.fields()); err != nil {
		wrapped := fmt.Errorf("failed to update task: %w", err)
		s.setErr(wrapped)
		return wrapped
	}
	return nil
}

// Remove deletes remotely first; the cached task stays visible when the
// remote delete fails.
func (s *TaskStore) Remove(ctx context.Context, id string) error {
	if !s.sess.Authenticated() {
		return nil
	}

	s.clearErr()

	if err := s.repo.Delete(ctx, id, s.sess.UserID); err != nil {
		wrapped := fmt.Errorf("failed to delete task: %w", err)
		s.setErr(wrapped)
		return wrapped
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.TaskID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	return nil
}

// ToggleCompletion flips the task's completed flag. Unknown ids are a
// silent no-op; the cache may simply be lagging the remote store.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) error {
	if !s.sess.Authenticated() {
		return nil
	}

	s.mu.RLock()
	var completed bool
	found := false
	for _, t := range s.tasks {
		if t.TaskID == id {
			completed = !t.Completed
			found = true
			break
		}
	}
	s.mu.RUnlock()

	if !found {
		return nil
	}
	return s.Update(ctx, id, TaskPatch{Completed: &completed})
}

// ToggleSubtask flips one subtask's completed flag, replacing the whole
// subtasks sequence remotely. Unknown task or subtask ids are a silent
// no-op.
func (s *TaskStore) ToggleSubtask(ctx context.Context, id, subtaskID string) error {
	if !s.sess.Authenticated() {
		return nil
	}

	s.mu.RLock()
	var updated []model.Subtask
	found := false
	for _, t := range s.tasks {
		if t.TaskID != id {
			continue
		}
		if _, ok := t.Subtask(subtaskID); !ok {
			break
		}
		updated = make([]model.Subtask, len(t.Subtasks))
		for i, sub := range t.Subtasks {
			if sub.SubtaskID == subtaskID {
				sub.Completed = !sub.Completed
			}
			updated[i] = sub
		}
		found = true
		break
	}
	s.mu.RUnlock()

	if !found {
		return nil
	}
	return s.Update(ctx, id, TaskPatch{Subtasks: &updated})
}

func (s *TaskStore) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *TaskStore) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.log.WithError(err).WithField("owner", s.sess.UserID).Error("task store")
}
