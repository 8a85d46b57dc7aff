// Package notification implements the reminder delivery channels. Both
// channels are advisory and fire-and-forget: a failed or unavailable
// dispatch is logged and dropped, never escalated to the caller's flow.
package notification

import "context"

// Browser is the popup channel. Show drops the message silently when the
// owner has no connected client or has not granted permission.
type Browser interface {
	RequestPermission(ctx context.Context, ownerID string) bool
	Show(ownerID, title, body string)
}

// Email delivers a reminder to an address. Implementations may be real
// (SMTP, SendGrid, Mailgun) or the default log-only stub.
type Email interface {
	Send(address, subject, body string) error
}
