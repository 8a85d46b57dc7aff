package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"planner/model"
)

const (
	tasksCollection = "Tasks"
	listsCollection = "TodoLists"
	todosCollection = "Todos"
)

// FirestoreRepository backs both record kinds with Firestore collections.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	iter := r.client.Collection(tasksCollection).
		Where("ownerid", "==", ownerID).
		OrderBy("createdat", firestore.Desc).
		Documents(ctx)

	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		var t model.Task
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("parse task %s: %w", doc.Ref.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *FirestoreRepository) Insert(ctx context.Context, t model.Task) (model.Task, error) {
	now := time.Now()
	t.TaskID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := r.client.Collection(tasksCollection).Doc(t.TaskID).Set(ctx, t); err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (r *FirestoreRepository) UpdateFields(ctx context.Context, id, ownerID string, fields map[string]any) error {
	ref := r.client.Collection(tasksCollection).Doc(id)
	if err := r.verifyTaskOwner(ctx, ref, ownerID); err != nil {
		return err
	}

	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedat", Value: time.Now()})

	if _, err := ref.Update(ctx, updates); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, id, ownerID string) error {
	ref := r.client.Collection(tasksCollection).Doc(id)
	if err := r.verifyTaskOwner(ctx, ref, ownerID); err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) verifyTaskOwner(ctx context.Context, ref *firestore.DocumentRef, ownerID string) error {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("get task: %w", err)
	}
	var t model.Task
	if err := doc.DataTo(&t); err != nil {
		return fmt.Errorf("parse task %s: %w", ref.ID, err)
	}
	if t.OwnerID != ownerID {
		return ErrNotFound
	}
	return nil
}

func (r *FirestoreRepository) Lists(ctx context.Context, ownerID string) ([]model.TodoList, error) {
	iter := r.client.Collection(listsCollection).
		Where("ownerid", "==", ownerID).
		OrderBy("createdat", firestore.Asc).
		Documents(ctx)

	var lists []model.TodoList
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list todo lists: %w", err)
		}
		var l model.TodoList
		if err := doc.DataTo(&l); err != nil {
			return nil, fmt.Errorf("parse list %s: %w", doc.Ref.ID, err)
		}
		lists = append(lists, l)
	}
	return lists, nil
}

func (r *FirestoreRepository) InsertList(ctx context.Context, l model.TodoList) (model.TodoList, error) {
	l.ListID = uuid.New().String()
	l.CreatedAt = time.Now()

	if _, err := r.client.Collection(listsCollection).Doc(l.ListID).Set(ctx, l); err != nil {
		return model.TodoList{}, fmt.Errorf("insert list: %w", err)
	}
	return l, nil
}

func (r *FirestoreRepository) Todos(ctx context.Context, listID, ownerID string) ([]model.Todo, error) {
	iter := r.client.Collection(todosCollection).
		Where("listid", "==", listID).
		Where("ownerid", "==", ownerID).
		OrderBy("createdat", firestore.Asc).
		Documents(ctx)

	var todos []model.Todo
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list todos: %w", err)
		}
		var t model.Todo
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("parse todo %s: %w", doc.Ref.ID, err)
		}
		todos = append(todos, t)
	}
	return todos, nil
}

func (r *FirestoreRepository) InsertTodo(ctx context.Context, t model.Todo) (model.Todo, error) {
	t.TodoID = uuid.New().String()
	t.CreatedAt = time.Now()

	if _, err := r.client.Collection(todosCollection).Doc(t.TodoID).Set(ctx, t); err != nil {
		return model.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

func (r *FirestoreRepository) UpdateTodo(ctx context.Context, id, ownerID string, fields map[string]any) error {
	ref := r.client.Collection(todosCollection).Doc(id)
	if err := r.verifyTodoOwner(ctx, ref, ownerID); err != nil {
		return err
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if _, err := ref.Update(ctx, updates); err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) DeleteTodo(ctx context.Context, id, ownerID string) error {
	ref := r.client.Collection(todosCollection).Doc(id)
	if err := r.verifyTodoOwner(ctx, ref, ownerID); err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) verifyTodoOwner(ctx context.Context, ref *firestore.DocumentRef, ownerID string) error {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("get todo: %w", err)
	}
	var t model.Todo
	if err := doc.DataTo(&t); err != nil {
		return fmt.Errorf("parse todo %s: %w", ref.ID, err)
	}
	if t.OwnerID != ownerID {
		return ErrNotFound
	}
	return nil
}
