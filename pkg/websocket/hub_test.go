package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func register(hub *Hub, operatorID uint64, buffer int) *Client {
	client := &Client{Hub: hub, Send: make(chan []byte, buffer), OperatorID: operatorID}
	hub.Register <- client
	return client
}

func TestHub_SendToOperatorAndBroadcast(t *testing.T) {
	hub := startHub(t)
	a := register(hub, 1, 4)
	b := register(hub, 2, 4)

	require.Eventually(t, func() bool { return len(hub.ConnectedOperators()) == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.SendMessageToOperator(1, map[string]int{"n": 1}, "agenda.updated"))
	require.NoError(t, hub.Broadcast("x", "dashboard.updated"))

	var env Envelope
	require.NoError(t, json.Unmarshal(<-a.Send, &env))
	assert.Equal(t, "agenda.updated", env.Type)
	require.NoError(t, json.Unmarshal(<-a.Send, &env))
	assert.Equal(t, "dashboard.updated", env.Type)

	require.NoError(t, json.Unmarshal(<-b.Send, &env))
	assert.Equal(t, "dashboard.updated", env.Type)
	assert.Empty(t, b.Send)
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := startHub(t)
	slow := register(hub, 3, 1)
	require.Eventually(t, func() bool { return len(hub.ConnectedOperators()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast(1, "t"))
	require.NoError(t, hub.Broadcast(2, "t"))

	assert.Empty(t, hub.ConnectedOperators())
	<-slow.Send
	_, ok := <-slow.Send
	assert.False(t, ok, "канал закрыт после отключения")
}

func TestHub_OperatorGone(t *testing.T) {
	hub := NewHub(zap.NewNop())
	gone := make(chan uint64, 1)
	hub.OnOperatorGone(func(id uint64) { gone <- id })
	go hub.Run()
	t.Cleanup(hub.Stop)

	first := register(hub, 5, 1)
	second := register(hub, 5, 1)

	hub.unregister <- first
	select {
	case id := <-gone:
		t.Fatalf("оператор %d ещё подключен вторым соединением", id)
	case <-time.After(50 * time.Millisecond):
	}

	hub.unregister <- second
	select {
	case id := <-gone:
		assert.Equal(t, uint64(5), id)
	case <-time.After(time.Second):
		t.Fatal("обработчик не вызван")
	}
}
