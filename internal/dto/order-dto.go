package dto

// UpdateOrderDTO - частичное обновление заказа из редактора.
type UpdateOrderDTO struct {
	OrderName   *string `json:"orderName,omitempty" validate:"omitempty,min=1,max=255"`
	IsConfirmed *bool   `json:"isConfirmed,omitempty"`
	Urgency     *string `json:"urgency,omitempty" validate:"omitempty,urgency"`
}

func (d UpdateOrderDTO) IsEmpty() bool {
	return d.OrderName == nil && d.IsConfirmed == nil && d.Urgency == nil
}
