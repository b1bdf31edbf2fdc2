package progress

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades requests to websocket watchers of h.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		wt := h.subscribe(uuid.NewString())
		go h.writePump(conn, wt)
		go h.readPump(conn, wt)
	})
}

// readPump discards inbound frames and unsubscribes on close.
func (h *Hub) readPump(conn *websocket.Conn, w *watcher) {
	defer func() {
		h.unsubscribe(w)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("watcher closed unexpectedly", "id", w.id, "error", err)
			}
			return
		}
	}
}

// writePump sends events and keepalive pings until the watcher is closed.
func (h *Hub) writePump(conn *websocket.Conn, w *watcher) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-w.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("watcher write failed", "id", w.id, "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Watch dials a progress feed at url and calls fn for each event until ctx
// is done or the server closes the connection.
func Watch(ctx context.Context, url string, fn func(Event)) error {
	return watch(ctx, url, nil, fn)
}

// ReconnectConfig controls WatchForever backoff.
type ReconnectConfig struct {
	BaseWait time.Duration
	MaxWait  time.Duration
}

// DefaultReconnectConfig returns sensible defaults.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		BaseWait: time.Second,
		MaxWait:  60 * time.Second,
	}
}

// WatchForever is Watch that redials with exponential backoff whenever the
// connection fails or closes. The wait resets after each successful dial.
// Returns nil once ctx is done.
func WatchForever(ctx context.Context, url string, cfg ReconnectConfig, logger *slog.Logger, fn func(Event)) error {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseWait <= 0 {
		cfg.BaseWait = DefaultReconnectConfig().BaseWait
	}
	if cfg.MaxWait < cfg.BaseWait {
		cfg.MaxWait = cfg.BaseWait
	}

	wait := cfg.BaseWait
	for {
		err := watch(ctx, url, func() {
			wait = cfg.BaseWait
			logger.Info("progress feed connected", "url", url)
		}, fn)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logger.Warn("progress feed lost", "url", url, "error", err, "retry_in", wait)
		} else {
			logger.Info("progress feed closed by server", "url", url, "retry_in", wait)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}

		// Exponential backoff
		wait *= 2
		if wait > cfg.MaxWait {
			wait = cfg.MaxWait
		}
	}
}

func watch(ctx context.Context, url string, onConnect func(), fn func(Event)) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	if onConnect != nil {
		onConnect()
	}

	// Unblock the read below on cancellation.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		fn(ev)
	}
}
