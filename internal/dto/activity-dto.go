package dto

import "time"

// UpdateActivityDTO - частичное обновление активности из редактора.
type UpdateActivityDTO struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,activity_status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Responsible *string    `json:"responsible,omitempty" validate:"omitempty,max=255"`
	Color       *string    `json:"color,omitempty" validate:"omitempty,hex_or_name_color"`
	InCalendar  *bool      `json:"inCalendar,omitempty"`
	Notes       []string   `json:"note,omitempty" validate:"omitempty,dive,max=2000"`
}

func (d UpdateActivityDTO) IsEmpty() bool {
	return d.Name == nil && d.Status == nil && d.StartDate == nil && d.EndDate == nil &&
		d.Responsible == nil && d.Color == nil && d.InCalendar == nil && d.Notes == nil
}
