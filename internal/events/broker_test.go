package events_test

import (
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishReachesOnlyShiftSubscribers(t *testing.T) {
	b := events.NewBroker(4, nil)

	chA, cancelA := b.Subscribe("shift-a")
	defer cancelA()
	chB, cancelB := b.Subscribe("shift-b")
	defer cancelB()

	b.Publish(domain.ShiftEvent{ShiftID: "shift-a", Seq: 1})

	select {
	case ev := <-chA:
		assert.Equal(t, 1, ev.Seq)
	case <-time.After(time.Second):
		t.Fatal("subscriber of shift-a did not receive the event")
	}

	select {
	case ev := <-chB:
		t.Fatalf("subscriber of shift-b received %+v", ev)
	default:
	}
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := events.NewBroker(1, nil)
	ch, cancel := b.Subscribe("s")
	require.Equal(t, 1, b.Subscribers("s"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers("s"))
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := events.NewBroker(1, nil)
	ch, cancel := b.Subscribe("s")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 5; i++ {
			b.Publish(domain.ShiftEvent{ShiftID: "s", Seq: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	ev := <-ch
	assert.Equal(t, 1, ev.Seq)
}

func TestTracker_DiscardsStaleSnapshots(t *testing.T) {
	var tr events.Tracker

	assert.True(t, tr.Apply(domain.ShiftEvent{ShiftID: "s", Seq: 2, Status: domain.ShiftActive}))
	assert.False(t, tr.Apply(domain.ShiftEvent{ShiftID: "s", Seq: 1, Status: domain.ShiftActive}))
	assert.False(t, tr.Apply(domain.ShiftEvent{ShiftID: "s", Seq: 2, Status: domain.ShiftActive}))
	assert.True(t, tr.Apply(domain.ShiftEvent{ShiftID: "s", Seq: 3, Status: domain.ShiftActive}))

	// Ending a shift does not add a ledger entry, so the end snapshot shares the seq.
	assert.True(t, tr.Apply(domain.ShiftEvent{ShiftID: "s", Seq: 3, Status: domain.ShiftEnded}))
	assert.False(t, tr.Apply(domain.ShiftEvent{ShiftID: "s", Seq: 4, Status: domain.ShiftActive}))

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, domain.ShiftEnded, cur.Status)
	assert.Equal(t, 3, cur.Seq)
}
