package views

import (
	"time"

	"agenda-system/internal/dto"
	"agenda-system/internal/entities"
)

// OrderLabelFunc возвращает отображаемое имя заказа по его id.
type OrderLabelFunc func(orderID uint64) string

// ProjectOrganizationCalendar строит общий календарь: только активности с InCalendar == true.
// Порядок событий совпадает с порядком заказов и активностей в снимке.
func ProjectOrganizationCalendar(orders []entities.Order) []dto.CalendarEventDTO {
	events := make([]dto.CalendarEventDTO, 0)
	for i := range orders {
		order := &orders[i]
		for j := range order.Activities {
			a := &order.Activities[j]
			if !a.InCalendar {
				continue
			}
			event := toCalendarEvent(a, order.OrderName+" - "+a.Name)
			event.Urgency = string(order.Urgency)
			events = append(events, event)
		}
	}
	return events
}

// ProjectOperatorAgenda строит повестку оператора. Фильтра по InCalendar нет:
// показываются все активности, уже отобранные для оператора.
func ProjectOperatorAgenda(activities []entities.Activity, orderLabel OrderLabelFunc) []dto.AgendaEntryDTO {
	entries := make([]dto.AgendaEntryDTO, 0, len(activities))
	for i := range activities {
		a := &activities[i]
		label := orderLabel(a.OrderID)
		entries = append(entries, dto.AgendaEntryDTO{
			CalendarEventDTO: toCalendarEvent(a, label+" - "+a.Name+" - "+string(a.Status)),
			ActivityID:       a.ID,
			OrderID:          a.OrderID,
			OrderLabel:       label,
		})
	}
	return entries
}

// Цвет не подставляется по умолчанию - это делает слой представления.
func toCalendarEvent(a *entities.Activity, title string) dto.CalendarEventDTO {
	notes := a.Notes
	if notes == nil {
		notes = []string{}
	}
	return dto.CalendarEventDTO{
		Title:       title,
		Start:       a.StartDate,
		End:         a.EndDate,
		Color:       a.Color,
		Responsible: a.Responsible,
		Status:      string(a.Status),
		Notes:       notes,
	}
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}
