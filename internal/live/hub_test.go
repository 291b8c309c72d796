package live

import "testing"

func TestHubDeliversToAllSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(Event{ReportID: 7})

	for _, sub := range []*Subscriber{a, b} {
		select {
		case ev := <-sub.C:
			if ev.ReportID != 7 {
				t.Fatalf("report id = %d, want 7", ev.ReportID)
			}
		default:
			t.Fatalf("subscriber did not receive event")
		}
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	s := h.Subscribe()
	h.Unsubscribe(s)

	if _, ok := <-s.C; ok {
		t.Fatalf("channel should be closed")
	}
	if h.Len() != 0 {
		t.Fatalf("subscriber still registered")
	}
	// Double unsubscribe must not panic.
	h.Unsubscribe(s)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub()
	slow := h.Subscribe()

	// Fill the buffer, then one more: the hub must drop the subscriber
	// rather than block the publisher.
	for i := 0; i < cap(slow.C)+1; i++ {
		h.Publish(Event{ReportID: int64(i)})
	}

	if h.Len() != 0 {
		t.Fatalf("slow subscriber should have been dropped")
	}

	// Drain: the channel must be closed after the buffered events.
	count := 0
	for range slow.C {
		count++
	}
	if count != cap(slow.C) {
		t.Fatalf("drained %d events, want %d", count, cap(slow.C))
	}
}
