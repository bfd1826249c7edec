package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub держит все соединения операторов и рассылает им сообщения.
type Hub struct {
	clients         map[*Client]bool
	operatorClients map[uint64][]*Client
	Register        chan *Client
	unregister      chan *Client
	stop            chan struct{}
	mu              sync.RWMutex
	onOperatorGone  func(operatorID uint64)
	logger          *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		operatorClients: make(map[uint64][]*Client),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		stop:            make(chan struct{}),
		logger:          logger.Named("ws"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.operatorClients[client.OperatorID] = append(h.operatorClients[client.OperatorID], client)
			h.mu.Unlock()
			h.logger.Info("Клиент зарегистрирован", zap.Uint64("operatorID", client.OperatorID))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Info("Клиент отсоединен", zap.Uint64("operatorID", client.OperatorID))
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				h.remove(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// OnOperatorGone задает обработчик, вызываемый после закрытия последнего соединения оператора.
// Задается до Run.
func (h *Hub) OnOperatorGone(fn func(operatorID uint64)) {
	h.onOperatorGone = fn
}

// Stop закрывает все соединения и завершает Run.
func (h *Hub) Stop() {
	close(h.stop)
}

// remove вызывается под h.mu.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	clients := h.operatorClients[client.OperatorID]
	for i, c := range clients {
		if c == client {
			h.operatorClients[client.OperatorID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.operatorClients[client.OperatorID]) == 0 {
		delete(h.operatorClients, client.OperatorID)
		if h.onOperatorGone != nil {
			go h.onOperatorGone(client.OperatorID)
		}
	}
}

// SendMessageToOperator отправляет сообщение во все соединения оператора.
func (h *Hub) SendMessageToOperator(operatorID uint64, payload interface{}, messageType string) error {
	message, err := encode(payload, messageType)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.operatorClients[operatorID] {
		h.deliver(client, message)
	}
	return nil
}

// Broadcast отправляет сообщение всем подключенным клиентам.
func (h *Hub) Broadcast(payload interface{}, messageType string) error {
	message, err := encode(payload, messageType)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.deliver(client, message)
	}
	return nil
}

// deliver не блокируется: медленный клиент отключается. Вызывается под h.mu.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.logger.Warn("Буфер клиента переполнен, соединение закрыто", zap.Uint64("operatorID", client.OperatorID))
		h.remove(client)
	}
}

// ConnectedOperators - id операторов с хотя бы одним открытым соединением.
func (h *Hub) ConnectedOperators() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uint64, 0, len(h.operatorClients))
	for id := range h.operatorClients {
		ids = append(ids, id)
	}
	return ids
}

func encode(payload interface{}, messageType string) ([]byte, error) {
	return json.Marshal(Envelope{
		ID:        uuid.NewString(),
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}
