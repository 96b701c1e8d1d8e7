package notify

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrPastTrigger = errors.New("trigger instant is not in the future")

// Notifier schedules and cancels local reminders. Handles are opaque;
// cancelling an unknown or already-fired handle is a no-op, never an
// error.
type Notifier interface {
	Schedule(title, body string, at time.Time) (uuid.UUID, error)
	Cancel(id uuid.UUID)
}

// Sink receives reminders when they fire. In production this is the
// websocket hub pushing to the phone; tests plug in a recorder.
type Sink interface {
	Deliver(title, body string)
}

// Scheduler is the in-process reminder subsystem: one timer per live
// handle. Timers do not survive a restart; main rebuilds them from the
// stored records on startup.
type Scheduler struct {
	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	sink   Sink
}

func NewScheduler(sink Sink) *Scheduler {
	return &Scheduler{
		timers: make(map[uuid.UUID]*time.Timer),
		sink:   sink,
	}
}

// Schedule registers a reminder to fire at the given instant. Instants
// at or before now are refused: a reminder in the past would fire
// immediately and confuse the user instead of helping them.
func (s *Scheduler) Schedule(title, body string, at time.Time) (uuid.UUID, error) {
	delay := time.Until(at)
	if delay <= 0 {
		return uuid.Nil, ErrPastTrigger
	}

	id := uuid.New()
	s.mu.Lock()
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		s.sink.Deliver(title, body)
	})
	s.mu.Unlock()

	return id, nil
}

// Cancel stops a pending reminder. Unknown handles are ignored.
func (s *Scheduler) Cancel(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	s.mu.Lock()
	timer, ok := s.timers[id]
	if ok {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
}

// Pending reports how many reminders are currently scheduled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending reminder, used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	log.Println("Reminder scheduler stopped")
}
