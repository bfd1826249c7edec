package dto

import "time"

// CalendarEventDTO - событие календаря, построенное из активности. Не сохраняется.
type CalendarEventDTO struct {
	Title       string     `json:"title"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	Color       string     `json:"color,omitempty"`
	Responsible string     `json:"responsible"`
	Status      string     `json:"status"`
	Notes       []string   `json:"notes"`
	Urgency     string     `json:"urgency,omitempty"`
}

// AgendaEntryDTO - событие повестки одного оператора.
type AgendaEntryDTO struct {
	CalendarEventDTO
	ActivityID uint64 `json:"activityId"`
	OrderID    uint64 `json:"orderId"`
	OrderLabel string `json:"orderLabel"`
}

// ViewResponseDTO оборачивает производное представление состоянием синхронизации.
type ViewResponseDTO[T any] struct {
	Data    T      `json:"data"`
	Version uint64 `json:"version"`
	Stale   bool   `json:"stale"`
	Error   string `json:"error,omitempty"`
}
