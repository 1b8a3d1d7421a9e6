// Package notify delivers trip reminders inside the server process. A
// reminder fires once at its scheduled time and is handed to a Deliver func;
// the default delivery writes a log line.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travgram/internal/collab"
)

var ErrUnknownReminder = errors.New("unknown reminder")

type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	now     func() time.Time
	deliver func(id string, n collab.Notification)
}

// NewScheduler returns a scheduler that logs each reminder when it fires.
func NewScheduler(log *zap.Logger) *Scheduler {
	return NewSchedulerFunc(func(id string, n collab.Notification) {
		log.Info("trip reminder", zap.String("reminder_id", id), zap.String("title", n.Title), zap.String("body", n.Body))
	})
}

func NewSchedulerFunc(deliver func(id string, n collab.Notification)) *Scheduler {
	return &Scheduler{timers: map[string]*time.Timer{}, now: time.Now, deliver: deliver}
}

func (s *Scheduler) Schedule(_ context.Context, n collab.Notification, at time.Time) (string, error) {
	id := uuid.NewString()
	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, pending := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if pending {
			s.deliver(id, n)
		}
	})
	return id, nil
}

func (s *Scheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return ErrUnknownReminder
	}
	t.Stop()
	delete(s.timers, id)
	return nil
}

// Pending reports how many reminders have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
