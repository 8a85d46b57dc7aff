// Package repository defines the persistence contract the stores sync
// against. Every call is scoped to an owner: touching a record that
// belongs to someone else fails with ErrNotFound, it never silently
// succeeds.
package repository

import (
	"context"
	"errors"

	"planner/model"
)

var ErrNotFound = errors.New("record not found")

// TaskRepository is the remote record store for tasks. Insert assigns the
// id and both timestamps; UpdateFields bumps updatedat so it never
// regresses across writes.
type TaskRepository interface {
	List(ctx context.Context, ownerID string) ([]model.Task, error)
	Insert(ctx context.Context, t model.Task) (model.Task, error)
	UpdateFields(ctx context.Context, id, ownerID string, fields map[string]any) error
	Delete(ctx context.Context, id, ownerID string) error
}

// ListRepository persists todo lists and their todos. Todos are scoped by
// list in addition to owner.
type ListRepository interface {
	Lists(ctx context.Context, ownerID string) ([]model.TodoList, error)
	InsertList(ctx context.Context, l model.TodoList) (model.TodoList, error)
	Todos(ctx context.Context, listID, ownerID string) ([]model.Todo, error)
	InsertTodo(ctx context.Context, t model.Todo) (model.Todo, error)
	UpdateTodo(ctx context.Context, id, ownerID string, fields map[string]any) error
	DeleteTodo(ctx context.Context, id, ownerID string) error
}
