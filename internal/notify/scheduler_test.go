package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu        sync.Mutex
	delivered []string
}

func (r *recordingSink) Deliver(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, title+": "+body)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func TestScheduleFires(t *testing.T) {
	sink := &recordingSink{}
	s := NewScheduler(sink)
	defer s.Stop()

	id, err := s.Schedule("title", "body", time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 1, s.Pending())

	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}

func TestScheduleRejectsPastInstant(t *testing.T) {
	s := NewScheduler(&recordingSink{})
	defer s.Stop()

	_, err := s.Schedule("title", "body", time.Now().Add(-time.Minute))
	assert.ErrorIs(t, err, ErrPastTrigger)

	_, err = s.Schedule("title", "body", time.Now())
	assert.ErrorIs(t, err, ErrPastTrigger)

	assert.Equal(t, 0, s.Pending())
}

func TestCancelStopsDelivery(t *testing.T) {
	sink := &recordingSink{}
	s := NewScheduler(sink)
	defer s.Stop()

	id, err := s.Schedule("title", "body", time.Now().Add(50*time.Millisecond))
	require.NoError(t, err)

	s.Cancel(id)
	assert.Equal(t, 0, s.Pending())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, sink.count())
}

func TestCancelUnknownHandleIsNoOp(t *testing.T) {
	s := NewScheduler(&recordingSink{})
	defer s.Stop()

	s.Cancel(uuid.New()) // never scheduled
	s.Cancel(uuid.Nil)   // empty handle

	// Cancelling an already-fired handle is equally silent.
	sink := &recordingSink{}
	s2 := NewScheduler(sink)
	defer s2.Stop()
	id, err := s2.Schedule("title", "body", time.Now().Add(20*time.Millisecond))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	s2.Cancel(id)
}

func TestStopCancelsEverything(t *testing.T) {
	sink := &recordingSink{}
	s := NewScheduler(sink)

	for i := 0; i < 3; i++ {
		_, err := s.Schedule("title", "body", time.Now().Add(time.Hour))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())
}
