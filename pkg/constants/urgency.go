package constants

import "strings"

type Urgency string

const (
	UrgencyLow     Urgency = "Bassa"
	UrgencyMedium  Urgency = "Media"
	UrgencyHigh    Urgency = "Alta"
	UrgencyUnknown Urgency = ""
)

var UrgencyLabels = map[Urgency]string{
	UrgencyLow:     "Bassa",
	UrgencyMedium:  "Media",
	UrgencyHigh:    "Alta",
	UrgencyUnknown: "Non definita",
}

var UrgencyColors = map[Urgency]string{
	UrgencyLow:     "success",
	UrgencyMedium:  "warning",
	UrgencyHigh:    "error",
	UrgencyUnknown: "default",
}

var AllUrgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}

// ParseUrgency, как и ParseActivityStatus, оставляет неизвестное значение как есть.
func ParseUrgency(raw string) Urgency {
	trimmed := strings.TrimSpace(raw)
	normalized := strings.ToLower(trimmed)
	for _, u := range AllUrgencies {
		if strings.ToLower(string(u)) == normalized {
			return u
		}
	}
	return Urgency(trimmed)
}

func (u Urgency) IsValid() bool {
	for _, known := range AllUrgencies {
		if u == known {
			return true
		}
	}
	return false
}

func (u Urgency) Label() string {
	if label, ok := UrgencyLabels[u]; ok {
		return label
	}
	return string(u)
}

func (u Urgency) Color() string {
	if color, ok := UrgencyColors[u]; ok {
		return color
	}
	return UrgencyColors[UrgencyUnknown]
}

func (u Urgency) String() string { return string(u) }
