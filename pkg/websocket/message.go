package websocket

import "time"

// Envelope - конверт сообщения; Type говорит фронтенду, какой вид обновить.
type Envelope struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
