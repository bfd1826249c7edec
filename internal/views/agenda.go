package views

import (
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	"agenda-system/internal/dto"
	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
)

// OrderLabels собирает функцию "order_id -> <клиент> - <заказ>".
// orders == nil означает, что заказы ещё не загружены.
func OrderLabels(orders []entities.Order, customers []entities.Customer) OrderLabelFunc {
	if orders == nil {
		return func(uint64) string { return constants.OrderLoadingPlaceholder }
	}

	byID := make(map[uint64]*entities.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}
	customerNames := make(map[uint64]string, len(customers))
	for _, c := range customers {
		customerNames[c.ID] = c.CustomerName
	}

	return func(orderID uint64) string {
		order, ok := byID[orderID]
		if !ok {
			return constants.OrderNotFoundPlaceholder
		}
		customerName := ""
		if order.ClientID != nil {
			customerName = customerNames[*order.ClientID]
		}
		return customerName + " - " + order.OrderName
	}
}

// AgendaResolver строит повестку одного оператора и подавляет повторную выдачу
// одинакового результата: если содержимое не изменилось, возвращается прежний срез.
type AgendaResolver struct {
	mu          sync.Mutex
	last        []dto.AgendaEntryDTO
	fingerprint uint64
	hasLast     bool
}

func NewAgendaResolver() *AgendaResolver {
	return &AgendaResolver{}
}

// Resolve возвращает повестку и признак changed. При changed == false срез
// тот же самый, что был возвращен в прошлый раз.
func (r *AgendaResolver) Resolve(activities []entities.Activity, orders []entities.Order, customers []entities.Customer) ([]dto.AgendaEntryDTO, bool) {
	entries := ProjectOperatorAgenda(activities, OrderLabels(orders, customers))
	fp, err := Fingerprint(entries)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err == nil && r.hasLast && fp == r.fingerprint {
		return r.last, false
	}
	r.last = entries
	r.fingerprint = fp
	r.hasLast = err == nil
	return entries, true
}

// Last - последний выданный результат и его отпечаток.
func (r *AgendaResolver) Last() ([]dto.AgendaEntryDTO, uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.fingerprint, r.hasLast
}

type entryKey struct {
	Title       string
	HasStart    bool
	Start       int64
	HasEnd      bool
	End         int64
	Color       string
	Responsible string
	Status      string
	Notes       []string
	Urgency     string
	ActivityID  uint64
	OrderID     uint64
	OrderLabel  string
}

// Fingerprint - хеш содержимого повестки. Время приводится к UnixNano, чтобы
// в хеш попали значения, а не указатели.
func Fingerprint(entries []dto.AgendaEntryDTO) (uint64, error) {
	keys := make([]entryKey, len(entries))
	for i, e := range entries {
		keys[i] = entryKey{
			Title:       e.Title,
			HasStart:    e.Start != nil,
			Start:       unixOrZero(e.Start),
			HasEnd:      e.End != nil,
			End:         unixOrZero(e.End),
			Color:       e.Color,
			Responsible: e.Responsible,
			Status:      e.Status,
			Notes:       e.Notes,
			Urgency:     e.Urgency,
			ActivityID:  e.ActivityID,
			OrderID:     e.OrderID,
			OrderLabel:  e.OrderLabel,
		}
	}
	return hashstructure.Hash(keys, hashstructure.FormatV2, nil)
}
