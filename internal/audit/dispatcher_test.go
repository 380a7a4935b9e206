package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSink) Write(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("sink down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	id := uuid.New()
	d.Dispatch(Event{Action: "consultation_created", Entity: "consultation", EntityID: &id})
	d.Dispatch(Event{Action: "consultation_deleted", Entity: "consultation", EntityID: &id})
	d.Close()

	assert.Len(t, sink.events, 2)
	assert.Equal(t, "consultation_created", sink.events[0].Action)
	assert.Equal(t, "consultation_deleted", sink.events[1].Action)
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	d := NewDispatcher(&recordingSink{fail: true})

	d.Dispatch(Event{Action: "patient_created"})
	d.Close()
	d.Close()
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "city_created"})
	})
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "consultation_created"})
	})
	assert.Empty(t, sink.events)
}

func TestDispatchRacingClose(t *testing.T) {
	d := NewDispatcher(&recordingSink{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Event{Action: "patient_updated"})
		}()
	}
	d.Close()
	wg.Wait()
}
