package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventType - тип изменения строки в хранилище.
type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// AllEventTypes - подписка без ограничения по типу.
var AllEventTypes = []EventType{Insert, Update, Delete}

func (t EventType) IsValid() bool {
	switch t {
	case Insert, Update, Delete:
		return true
	}
	return false
}

// Change - одно уведомление об изменении строки.
// Для DELETE в Record пусто, значения лежат в OldRecord.
type Change struct {
	Table      string         `json:"table"`
	Type       EventType      `json:"type"`
	Record     map[string]any `json:"record"`
	OldRecord  map[string]any `json:"old_record"`
	ReceivedAt time.Time      `json:"-"`
}

// Row возвращает строку, по которой проверяются фильтры.
func (c Change) Row() map[string]any {
	if c.Type == Delete || len(c.Record) == 0 {
		return c.OldRecord
	}
	return c.Record
}

// DecodePayload разбирает полезную нагрузку NOTIFY / pub-sub сообщения.
// Числа остаются json.Number, чтобы большие id не теряли точность.
func DecodePayload(payload []byte) (Change, error) {
	var c Change
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&c); err != nil {
		return Change{}, fmt.Errorf("некорректное уведомление: %w", err)
	}
	c.Type = EventType(strings.ToUpper(string(c.Type)))
	if c.Table == "" {
		return Change{}, fmt.Errorf("некорректное уведомление: не указана таблица")
	}
	if !c.Type.IsValid() {
		return Change{}, fmt.Errorf("некорректное уведомление: неизвестный тип %q", c.Type)
	}
	c.ReceivedAt = time.Now()
	return c, nil
}
