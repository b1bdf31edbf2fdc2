package progress

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Outbound buffer per watcher.
	sendBufferSize = 256

	initialQueueSize = 1024
)

// watcher is one connected consumer.
type watcher struct {
	id   string
	send chan Event
}

// Hub queues published events and fans them out to watchers.
type Hub struct {
	queue  *Queue[Event]
	logger *slog.Logger
	seq    atomic.Int64

	mu       sync.RWMutex
	watchers map[*watcher]struct{}

	delivered atomic.Int64
	dropped   atomic.Int64
}

// NewHub creates a hub. Call Run to start delivery.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		queue:    NewQueue[Event](initialQueueSize),
		logger:   logger,
		watchers: make(map[*watcher]struct{}),
	}
}

// Publish queues ev, stamping its sequence number and time. Never blocks.
func (h *Hub) Publish(ev Event) {
	ev.Seq = h.seq.Add(1)
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.queue.Push(ev)
}

// Run delivers queued events until ctx is done. Events still queued at
// shutdown are delivered before Run returns.
func (h *Hub) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		h.queue.Close()
	}()

	for {
		ev, ok := h.queue.Pop()
		if !ok {
			break
		}
		h.broadcast(ev)
	}

	h.mu.Lock()
	for w := range h.watchers {
		delete(h.watchers, w)
		close(w.send)
	}
	h.mu.Unlock()

	h.logger.Info("progress hub stopped",
		"delivered", h.delivered.Load(),
		"dropped", h.dropped.Load(),
	)
}

// subscribe registers a watcher.
func (h *Hub) subscribe(id string) *watcher {
	w := &watcher{id: id, send: make(chan Event, sendBufferSize)}

	h.mu.Lock()
	h.watchers[w] = struct{}{}
	n := len(h.watchers)
	h.mu.Unlock()

	h.logger.Debug("watcher connected", "id", id, "watchers", n)
	return w
}

// unsubscribe removes a watcher and closes its channel. Safe to call twice.
func (h *Hub) unsubscribe(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.watchers[w]; ok {
		delete(h.watchers, w)
		close(w.send)
		h.logger.Debug("watcher disconnected", "id", w.id, "watchers", len(h.watchers))
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	var slow []*watcher
	for w := range h.watchers {
		select {
		case w.send <- ev:
			h.delivered.Add(1)
		default:
			slow = append(slow, w)
		}
	}
	h.mu.RUnlock()

	for _, w := range slow {
		h.dropped.Add(1)
		h.logger.Warn("watcher too slow, disconnecting", "id", w.id)
		h.unsubscribe(w)
	}
}

// WatcherCount returns the number of connected watchers.
func (h *Hub) WatcherCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

// HubStats describes hub activity.
type HubStats struct {
	Watchers  int        `json:"watchers"`
	Published int64      `json:"published"`
	Delivered int64      `json:"delivered"`
	Dropped   int64      `json:"dropped"`
	Queue     QueueStats `json:"queue"`
}

// Stats returns hub counters.
func (h *Hub) Stats() HubStats {
	return HubStats{
		Watchers:  h.WatcherCount(),
		Published: h.seq.Load(),
		Delivered: h.delivered.Load(),
		Dropped:   h.dropped.Load(),
		Queue:     h.queue.Stats(),
	}
}
