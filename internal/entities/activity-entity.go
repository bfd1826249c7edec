package entities

import (
	"time"

	"agenda-system/pkg/constants"
)

type Activity struct {
	ID        uint64                   `json:"id"`
	Name      string                   `json:"name"`
	Status    constants.ActivityStatus `json:"status"`
	StartDate *time.Time               `json:"startDate,omitempty"`
	EndDate   *time.Time               `json:"endDate,omitempty"`
	// Completed - момент завершения; nil, пока статус не "Completato".
	Completed   *time.Time `json:"completed,omitempty"`
	Responsible string     `json:"responsible"`
	Color       string     `json:"color,omitempty"`
	InCalendar  bool       `json:"inCalendar"`
	Notes       []string   `json:"note"`
	OrderID     uint64     `json:"order_id"`
}

func (a *Activity) IsCompleted() bool {
	return a.Status.IsCompleted()
}
