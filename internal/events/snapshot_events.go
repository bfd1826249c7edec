package events

import "time"

// SnapshotUpdatedEvent - монитор применил новый снимок (или очистил его после DELETE).
type SnapshotUpdatedEvent struct {
	Table   string
	ID      string
	Version uint64
	Cleared bool
}

// Name - реализуем интерфейс eventbus.Event
func (e SnapshotUpdatedEvent) Name() string {
	return "snapshot.updated"
}

// DayRolledOverEvent публикуется планировщиком в полночь: "сегодня" сменилось,
// дашборд нужно пересчитать даже без изменений в данных.
type DayRolledOverEvent struct {
	Today time.Time
}

func (e DayRolledOverEvent) Name() string {
	return "day.rolled_over"
}
