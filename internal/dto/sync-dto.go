package dto

import "time"

type MonitorStatusDTO struct {
	Key       string     `json:"key"`
	State     string     `json:"state"`
	Version   uint64     `json:"version"`
	Stale     bool       `json:"stale"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
