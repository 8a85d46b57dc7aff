package model

import "time"

// TodoList is the lightweight list-oriented aggregate. Todos are loaded
// separately and attached for the API response; they are not stored on
// the list document.
type TodoList struct {
	ListID    string    `firestore:"listid,omitempty" json:"id"`
	OwnerID   string    `firestore:"ownerid,omitempty" json:"ownerId"`
	Name      string    `firestore:"name,omitempty" json:"name"`
	Color     string    `firestore:"color,omitempty" json:"color,omitempty"`
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
	Todos     []Todo    `firestore:"-" json:"todos"`
}

type Todo struct {
	TodoID    string    `firestore:"todoid,omitempty" json:"id"`
	ListID    string    `firestore:"listid,omitempty" json:"listId"`
	OwnerID   string    `firestore:"ownerid,omitempty" json:"ownerId"`
	Title     string    `firestore:"title,omitempty" json:"title"`
	Completed bool      `firestore:"completed" json:"completed"`
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
}
