package store

import (
	"sync"

	"github.com/sirupsen/logrus"

	"planner/repository"
	"planner/session"
)

// Registry hands out one store instance per owner so every request and
// the owner's scheduler observe the same cache.
type Registry struct {
	taskRepo repository.TaskRepository
	listRepo repository.ListRepository
	log      *logrus.Logger

	mu    sync.Mutex
	tasks map[string]*TaskStore
	lists map[string]*ListStore
}

func NewRegistry(taskRepo repository.TaskRepository, listRepo repository.ListRepository, log *logrus.Logger) *Registry {
	return &Registry{
		taskRepo: taskRepo,
		listRepo: listRepo,
		log:      log,
		tasks:    make(map[string]*TaskStore),
		lists:    make(map[string]*ListStore),
	}
}

func (r *Registry) TaskStore(sess session.Session) *TaskStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.tasks[sess.UserID]; ok {
		return s
	}
	s := NewTaskStore(r.taskRepo, sess, r.log)
	r.tasks[sess.UserID] = s
	return s
}

func (r *Registry) ListStore(sess session.Session) *ListStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.lists[sess.UserID]; ok {
		return s
	}
	s := NewListStore(r.listRepo, sess, r.log)
	r.lists[sess.UserID] = s
	return s
}
