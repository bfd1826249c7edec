package syncer

import (
	"time"
)

// State - состояние монитора.
type State int

const (
	StateIdle State = iota
	StateSubscribed
	StateResyncing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribed:
		return "subscribed"
	case StateResyncing:
		return "resyncing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Key - ключ реестра мониторов: таблица и идентификатор (id строки, "*" или условие).
type Key struct {
	Table string
	ID    string
}

const allRows = "*"

func (k Key) String() string {
	return k.Table + "/" + k.ID
}

// Status - то, что видно снаружи: состояние, версия снимка и последняя ошибка.
type Status struct {
	Key         Key
	State       State
	Version     uint64
	HasSnapshot bool
	Err         error
	UpdatedAt   time.Time
}

// Stale - снимок есть, но последнее чтение завершилось ошибкой.
func (s Status) Stale() bool {
	return s.HasSnapshot && s.Err != nil
}
