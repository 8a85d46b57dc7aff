// Package session carries the authenticated owner a store or scheduler
// operates on behalf of. The zero value means "no owner": every consumer
// treats it as an inert state rather than an error.
package session

type Session struct {
	UserID string
	Email  string
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}
