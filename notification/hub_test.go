package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestPermissionWithoutConnection(t *testing.T) {
	hub := NewHub(testLogger())
	assert.False(t, hub.RequestPermission(context.Background(), "owner-a"),
		"no connected client means the channel is unavailable")
}

func TestShowWithoutConnectionIsSilent(t *testing.T) {
	hub := NewHub(testLogger())
	// Must not panic or block.
	hub.Show("owner-a", "Task Reminder", "body")
}

func TestPushSkipsClientsWithoutPermission(t *testing.T) {
	hub := NewHub(testLogger())
	c := NewClient(hub, nil, "owner-a")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Show("owner-a", "Task Reminder", "body")
	assert.Empty(t, c.send, "popup dropped until the client grants permission")

	c.granted.Store(true)
	hub.Show("owner-a", "Task Reminder", "body")
	assert.Len(t, c.send, 1)

	assert.True(t, hub.RequestPermission(context.Background(), "owner-a"))
}
