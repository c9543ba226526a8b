package webui

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// hub fans frames out to every connected page. The mutex is exclusive even
// for broadcasts: gorilla/websocket allows at most one concurrent writer per
// connection, so overlapping broadcasts must serialize.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{conns: map[*websocket.Conn]struct{}{}}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	_ = c.Close()
}

func (h *hub) broadcast(b []byte) {
	h.mu.Lock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Warn().Err(err).Msg("ws broadcast failed, dropping connection")
			delete(h.conns, c)
			_ = c.Close()
		}
	}
	h.mu.Unlock()
}
