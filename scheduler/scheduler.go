// Package scheduler runs the periodic due-date scan. It only ever reads
// the store's current snapshot; it never mutates tasks and keeps no
// record of what it already dispatched, so a task that stays inside the
// window is re-notified on every tick.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"planner/model"
	"planner/notification"
	"planner/session"
)

// Snapshot supplies the current task set. *store.TaskStore satisfies it.
type Snapshot interface {
	Tasks() []model.Task
}

type Config struct {
	Store   Snapshot
	Session session.Session
	Browser notification.Browser
	Email   notification.Email

	// Address receives the email-channel reminders, normally the
	// owner's account email.
	Address string

	// Window is the qualifying lookahead: a task due within
	// (0, Window] from now triggers a reminder. Defaults to 24h.
	Window time.Duration

	// Interval is the scan cadence. Defaults to one minute.
	Interval time.Duration

	Clock Clock
	Log   *logrus.Logger
}

type Scheduler struct {
	cfg     Config
	granted bool

	stopOnce sync.Once
	stop     chan struct{}
}

func New(cfg Config) *Scheduler {
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &Scheduler{
		cfg:  cfg,
		stop: make(chan struct{}),
	}
}

// Start acquires browser permission once and begins ticking until the
// context is cancelled or Stop is called. Each scan runs on its own
// goroutine so a slow dispatch cannot delay the next tick.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.Session.Authenticated() {
		return
	}

	s.granted = s.cfg.Browser.RequestPermission(ctx, s.cfg.Session.UserID)
	if !s.granted {
		s.cfg.Log.WithField("owner", s.cfg.Session.UserID).Info("browser notifications unavailable")
	}

	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				go s.CheckAndSend(s.cfg.Clock.Now())
			}
		}
	}()
}

// Stop tears down the recurring timer. In-flight dispatches are not
// cancelled.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// CheckAndSend scans the current snapshot once. A task qualifies when it
// is incomplete, has a due date, and that due date falls inside
// (now, now+window]. Dispatch failures are logged and never interrupt
// the scan.
func (s *Scheduler) CheckAndSend(now time.Time) {
	if !s.cfg.Session.Authenticated() {
		return
	}

	for _, t := range s.cfg.Store.Tasks() {
		if t.Completed || t.DueDate == nil {
			continue
		}

		hoursUntilDue := t.DueDate.Sub(now).Hours()
		if hoursUntilDue <= 0 || hoursUntilDue > s.cfg.Window.Hours() {
			continue
		}

		if t.Notifications.Browser && s.granted {
			s.cfg.Browser.Show(
				s.cfg.Session.UserID,
				"Task Reminder",
				"Task \""+t.Title+"\" is due "+t.DueDate.Format(time.RFC1123),
			)
		}
		if t.Notifications.Email {
			if err := s.cfg.Email.Send(
				s.cfg.Address,
				"Task Reminder: "+t.Title,
				"Your task \""+t.Title+"\" is due "+t.DueDate.Format(time.RFC1123)+".",
			); err != nil {
				s.cfg.Log.WithError(err).WithField("task", t.TaskID).Warn("email dispatch failed")
			}
		}
	}
}
