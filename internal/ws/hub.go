package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/logger"
)

// Hub раздаёт события всем подключённым панелям администратора.
// Клиенты сгруппированы по id сессии, чтобы выход закрывал её соединения.
type Hub struct {
	mu           sync.RWMutex
	clients      map[uuid.UUID]map[*Client]struct{}
	register     chan *Client
	unregister   chan *Client
	broadcast    chan []byte
	closeSession chan uuid.UUID
	done         chan struct{}
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[uuid.UUID]map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan []byte, 32),
		closeSession: make(chan uuid.UUID, 8),
		done:         make(chan struct{}),
	}
}

// Run главный цикл хаба, работает до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for sessionID, clients := range h.clients {
			for c := range clients {
				close(c.send)
			}
			delete(h.clients, sessionID)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case sessionID := <-h.closeSession:
			h.dropSession(sessionID)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента. После остановки хаба ничего не делает.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast отправляет событие всем клиентам. Сообщение имеет вид {"type": event, "data": data}.
// При переполненной очереди событие отбрасывается.
func (h *Hub) Broadcast(event string, data interface{}) {
	raw, err := json.Marshal(dto.Event{Type: event, Data: data})
	if err != nil {
		logger.Log.WithField("event", event).Errorf("ws: falha ao serializar evento: %v", err)
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		logger.Log.WithField("event", event).Warn("ws: fila de eventos cheia, evento descartado")
	}
}

// CloseSession закрывает все соединения указанной сессии.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	select {
	case h.closeSession <- sessionID:
	case <-h.done:
	}
}

// ClientCount число подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		h.clients[client.sessionID] = make(map[*Client]struct{})
	}
	h.clients[client.sessionID][client] = struct{}{}

	logger.Log.WithFields(logrus.Fields{"session_id": client.sessionID}).Debug("ws: cliente conectado")
}

// removeClient единственное место, где закрывается канал send.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}
}

func (h *Hub) dropSession(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[sessionID] {
		h.removeLocked(client)
	}
}

func (h *Hub) send(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- payload:
			default:
				// медленный клиент отключается
				h.removeLocked(client)
			}
		}
	}
}
