package live

import (
	"log/slog"
	"sync"
)

// Event announces that a report (or its votes) changed. Subscribers connect
// after the fact get nothing; there is no replay.
type Event struct {
	ReportID int64 `json:"report_id"`
}

// Subscriber receives events on C until unsubscribed or dropped.
type Subscriber struct {
	C chan Event
}

// Hub is the process-wide subscriber set. Delivery is best-effort: a
// subscriber whose buffer is full is dropped so the publisher and the other
// subscribers continue unaffected.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{C: make(chan Event, 16)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.C)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.C <- ev:
		default:
			delete(h.subs, s)
			close(s.C)
			slog.Warn("dropping slow live subscriber", "report_id", ev.ReportID)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
