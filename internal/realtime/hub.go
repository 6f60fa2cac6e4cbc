package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/logger"
)

// AllCandidates - ключ подписки на изменения всех кандидатов (для сотрудников).
var AllCandidates = uuid.Nil

var ErrHubStopped = errors.New("realtime: хаб остановлен")

// pruneInterval - как часто хаб чистит устаревшие отметки об удалении.
const pruneInterval = time.Minute

// Hub управляет подписками. Состоянием клиентов владеет цикл Run.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	reducer    *Reducer
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		reducer:    NewReducer(),
		done:       make(chan struct{}),
	}
}

// Run обслуживает хаб до отмены ctx, после чего закрывает все подписки.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := h.reducer.Prune(now); n > 0 {
				logger.Log.WithField("pruned", n).Debug("realtime: очищены отметки об удалении")
			}
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case e := <-h.broadcast:
			if h.reducer.Apply(e) {
				h.send(e)
			}
		}
	}
}

// Register подписывает клиента. Возвращает false, если хаб уже остановлен.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish ставит событие в очередь рассылки.
func (h *Hub) Publish(e Event) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- e:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Snapshot - последнее принятое состояние кандидата.
func (h *Hub) Snapshot(candidateID uuid.UUID) (Event, bool) {
	return h.reducer.Snapshot(candidateID)
}

// Subscribers - число подписчиков на кандидата.
func (h *Hub) Subscribers(candidateID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[candidateID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.candidateID]; !ok {
		h.clients[client.candidateID] = make(map[*Client]struct{})
	}
	h.clients[client.candidateID][client] = struct{}{}
	h.mu.Unlock()

	// опоздавший подписчик сразу получает текущее состояние
	if client.candidateID != AllCandidates {
		if snapshot, ok := h.reducer.Snapshot(client.candidateID); ok {
			h.deliver(client, snapshot)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked закрывает send только если клиент ещё подписан.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.candidateID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.candidateID)
	}
}

func (h *Hub) send(e Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[e.CandidateID])+len(h.clients[AllCandidates]))
	for c := range h.clients[e.CandidateID] {
		targets = append(targets, c)
	}
	if e.CandidateID != AllCandidates {
		for c := range h.clients[AllCandidates] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.deliver(c, e)
	}
}

// deliver не блокирует цикл: медленный клиент отключается.
func (h *Hub) deliver(c *Client, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		logger.WithCandidate(e.CandidateID).WithError(err).Error("realtime: не удалось сериализовать событие")
		return
	}

	select {
	case c.send <- payload:
	default:
		logger.WithCandidate(c.candidateID).Warn("realtime: клиент не успевает читать, отключаем")
		h.mu.Lock()
		h.dropLocked(c)
		h.mu.Unlock()
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, clients := range h.clients {
		for c := range clients {
			close(c.send)
		}
		delete(h.clients, key)
	}
}
