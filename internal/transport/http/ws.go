package http

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"activeresident/internal/live"
	"activeresident/internal/observability/metrics"
)

const (
	opText = 0x1
	opPing = 0x9

	wsPingInterval = 25 * time.Second
)

// newWSHandler streams report-change events to connected clients. One frame
// per event, server-to-client only.
func newWSHandler(hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := acceptWebSocket(w, r)
		if err != nil {
			slog.Debug("ws handshake failed", "error", err)
			return
		}
		defer ws.close()

		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)
		metrics.LiveSubscribers.Inc()
		defer metrics.LiveSubscribers.Dec()

		ctx := r.Context()
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					// Dropped by the hub for falling behind.
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					slog.Error("ws event marshal", "error", err)
					return
				}
				if err := ws.writeFrame(opText, data); err != nil {
					return
				}
			case <-ticker.C:
				if err := ws.writeFrame(opPing, nil); err != nil {
					return
				}
			}
		}
	}
}

type wsServerConn struct {
	conn net.Conn
	w    *bufio.Writer
	mu   sync.Mutex
}

func acceptWebSocket(w http.ResponseWriter, r *http.Request) (*wsServerConn, error) {
	if !strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") {
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, fmt.Errorf("missing upgrade header")
	}
	if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, fmt.Errorf("invalid upgrade value")
	}
	key := strings.TrimSpace(r.Header.Get("Sec-WebSocket-Key"))
	if key == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, fmt.Errorf("missing websocket key")
	}
	accept := computeAccept(key)
	hj, ok := w.(http.Hijacker)
	if !ok {
		http.Error(w, "upgrade not supported", http.StatusInternalServerError)
		return nil, fmt.Errorf("hijacking not supported")
	}
	conn, rw, err := hj.Hijack()
	if err != nil {
		return nil, err
	}
	response := fmt.Sprintf("HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Accept: %s\r\n\r\n", accept)
	if _, err := rw.WriteString(response); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := rw.Flush(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &wsServerConn{conn: conn, w: bufio.NewWriter(conn)}, nil
}

func (c *wsServerConn) writeFrame(opcode byte, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	if err := c.w.WriteByte(0x80 | opcode); err != nil {
		return err
	}
	length := len(payload)
	switch {
	case length <= 125:
		if err := c.w.WriteByte(byte(length)); err != nil {
			return err
		}
	case length < 65536:
		if err := c.w.WriteByte(126); err != nil {
			return err
		}
		if err := binary.Write(c.w, binary.BigEndian, uint16(length)); err != nil {
			return err
		}
	default:
		if err := c.w.WriteByte(127); err != nil {
			return err
		}
		if err := binary.Write(c.w, binary.BigEndian, uint64(length)); err != nil {
			return err
		}
	}
	if _, err := c.w.Write(payload); err != nil {
		return err
	}
	return c.w.Flush()
}

func (c *wsServerConn) close() {
	_ = c.conn.Close()
}

func computeAccept(key string) string {
	const wsGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	sum := sha1.Sum([]byte(key + wsGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}
