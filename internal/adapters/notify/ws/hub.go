package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"critter-market/internal/domain/creatures"
	"critter-market/internal/platform/logger"
)

// Hub reparte los eventos del core a observadores conectados por websocket.
// Entrega fire-and-forget: un consumidor lento no bloquea jamás una acción;
// si su buffer se llena, se lo desconecta.
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*client]struct{}
}

type client struct {
	out  chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.out) })
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		conns: make(map[*client]struct{}),
	}
}

// Emit implementa creatures.Notifier.
func (h *Hub) Emit(ev creatures.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.out <- b:
		default:
			// consumidor lento: afuera
			delete(h.conns, c)
			c.close()
		}
	}
}

// Handler atiende GET /ws/events.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := &client{out: make(chan []byte, 64)}
		h.mu.Lock()
		h.conns[c] = struct{}{}
		h.mu.Unlock()

		defer h.drop(c)

		// Writer en goroutine aparte; el reader de abajo solo detecta
		// el cierre del lado del cliente.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for b := range c.out {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			// entrada ignorada: el feed es de solo lectura
		}

		h.drop(c)
		<-done
		h.log.Debug("event feed client disconnected", nil)
	}
}

// drop saca al cliente del fanout y cierra su canal bajo el mismo lock que
// usa Emit, para que nunca haya un send sobre un canal cerrado.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
	c.close()
}
