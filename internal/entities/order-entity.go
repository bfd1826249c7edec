package entities

import (
	"time"

	"agenda-system/pkg/constants"
)

// Order - заказ с вложенными активностями. Заказ единолично владеет списком активностей.
type Order struct {
	ID           uint64            `json:"id"`
	OrderName    string            `json:"orderName"`
	CreatedAt    time.Time         `json:"created_at"`
	StartDate    *time.Time        `json:"startDate,omitempty"`
	IsConfirmed  bool              `json:"isConfirmed"`
	Urgency      constants.Urgency `json:"urgency"`
	ClientID     *uint64           `json:"clientId,omitempty"`
	OrderManager *uint64           `json:"orderManager,omitempty"`
	Activities   []Activity        `json:"activities"`

	// Заполняются только при детальном чтении одного заказа.
	Customer *Customer `json:"customer,omitempty"`
	Manager  *Operator `json:"manager,omitempty"`
}

// HasActivities - false и для nil, и для пустого списка.
func (o *Order) HasActivities() bool {
	return len(o.Activities) > 0
}
