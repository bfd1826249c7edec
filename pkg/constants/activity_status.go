package constants

import "strings"

// ActivityStatus - закрытый набор статусов активности.
type ActivityStatus string

const (
	ActivityStatusStandby       ActivityStatus = "Standby"
	ActivityStatusInProgress    ActivityStatus = "in corso"
	ActivityStatusAwaitingInput ActivityStatus = "in attesa"
	ActivityStatusCompleted     ActivityStatus = "Completato"
	// ActivityStatusUnknown - пустой статус. Прочие значения вне списка
	// сохраняются как есть и тоже считаются неизвестными.
	ActivityStatusUnknown ActivityStatus = ""
)

var ActivityStatusLabels = map[ActivityStatus]string{
	ActivityStatusStandby:       "Standby",
	ActivityStatusInProgress:    "In corso",
	ActivityStatusAwaitingInput: "In attesa",
	ActivityStatusCompleted:     "Completato",
	ActivityStatusUnknown:       "Sconosciuto",
}

var ActivityStatusColors = map[ActivityStatus]string{
	ActivityStatusStandby:       "default",
	ActivityStatusInProgress:    "info",
	ActivityStatusAwaitingInput: "warning",
	ActivityStatusCompleted:     "success",
	ActivityStatusUnknown:       "default",
}

// AllActivityStatuses - все известные статусы в порядке жизненного цикла.
var AllActivityStatuses = []ActivityStatus{
	ActivityStatusStandby,
	ActivityStatusInProgress,
	ActivityStatusAwaitingInput,
	ActivityStatusCompleted,
}

// ParseActivityStatus сопоставляет сохраненную строку со статусом.
// Регистр и пробелы по краям не учитываются. Неизвестное значение возвращается
// без изменений (кроме пробелов по краям), IsValid для него false.
func ParseActivityStatus(raw string) ActivityStatus {
	trimmed := strings.TrimSpace(raw)
	normalized := strings.ToLower(trimmed)
	for _, s := range AllActivityStatuses {
		if strings.ToLower(string(s)) == normalized {
			return s
		}
	}
	return ActivityStatus(trimmed)
}

func (s ActivityStatus) IsValid() bool {
	for _, known := range AllActivityStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s ActivityStatus) IsCompleted() bool { return s == ActivityStatusCompleted }

func (s ActivityStatus) IsStandby() bool { return s == ActivityStatusStandby }

func (s ActivityStatus) Label() string {
	if label, ok := ActivityStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s ActivityStatus) Color() string {
	if color, ok := ActivityStatusColors[s]; ok {
		return color
	}
	return ActivityStatusColors[ActivityStatusUnknown]
}

func (s ActivityStatus) String() string { return string(s) }
