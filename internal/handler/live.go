package handler

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/acervohq/acervo/internal/event"
)

// LiveMessage is the wire shape pushed to dashboard subscribers. Clients
// treat "invalidate" as a hint to re-fetch the view or dashboard; the socket
// never carries catalog data itself.
type LiveMessage struct {
	Type       string    `json:"type"` // "session" or "invalidate"
	SessionID  string    `json:"session_id,omitempty"`
	EventType  string    `json:"event_type,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// LiveHub fans catalog events out to connected WebSocket clients. It
// subscribes to the event bus like any other consumer.
type LiveHub struct {
	mu    sync.Mutex
	conns map[string]chan LiveMessage
}

// NewLiveHub creates an empty hub.
func NewLiveHub() *LiveHub {
	return &LiveHub{conns: make(map[string]chan LiveMessage)}
}

// HandleEvent implements the event bus handler: every catalog event becomes
// an invalidation push. Slow clients drop messages rather than stalling the
// bus.
func (h *LiveHub) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	msg := LiveMessage{
		Type:       "invalidate",
		EventType:  evt.EventType,
		Summary:    evt.Summary,
		OccurredAt: evt.OccurredAt,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.conns {
		select {
		case ch <- msg:
		default:
			log.Printf("live: session %s lagging, dropping %s", id[:8], evt.EventType)
		}
	}
	return nil
}

func (h *LiveHub) register(id string) chan LiveMessage {
	ch := make(chan LiveMessage, 32)
	h.mu.Lock()
	h.conns[id] = ch
	h.mu.Unlock()
	return ch
}

func (h *LiveHub) unregister(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

// ServeHTTP upgrades to WebSocket and streams invalidation messages until
// the client disconnects.
// GET /v1/live
func (h *LiveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("live: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	sessionID := uuid.New().String()
	ch := h.register(sessionID)
	defer h.unregister(sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client sends nothing meaningful; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	if err := wsjson.Write(ctx, conn, LiveMessage{Type: "session", SessionID: sessionID}); err != nil {
		return
	}
	log.Printf("live: session %s connected", sessionID[:8])

	for {
		select {
		case <-ctx.Done():
			log.Printf("live: session %s closed", sessionID[:8])
			return
		case msg := <-ch:
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return
			}
		}
	}
}
