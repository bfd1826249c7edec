// Package views строит производные представления (дашборд, календарь, повестки)
// из снимка заказов. Все функции чистые: без ввода-вывода и без глобального состояния.
package views

import (
	"fmt"
	"sort"
	"time"

	"agenda-system/internal/dto"
	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
)

const (
	urgentWindow            = 72 * time.Hour
	upcomingWindowDays      = 7
	maxUpcomingAppointments = 3
)

// DashboardOptions - статические строки-подсказки вокруг предупреждения о просрочке.
type DashboardOptions struct {
	LeadingAdvisory  string
	TrailingAdvisory string
}

// BuildDashboardStats считает статистику дашборда. "Сегодня" - полночь now в now.Location().
// Пустой или nil снимок дает EmptyDashboardStats.
func BuildDashboardStats(orders []entities.Order, now time.Time, opts DashboardOptions) dto.DashboardStatsDTO {
	if len(orders) == 0 {
		return dto.EmptyDashboardStats()
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, upcomingWindowDays)

	stats := dto.EmptyDashboardStats()
	overdue := 0

	for i := range orders {
		order := &orders[i]

		if inRange(order.CreatedAt, today, tomorrow) {
			stats.DailyStats.New++
		}
		if isOpen(order) {
			stats.OrderStatus.Open++
		}
		if isInProgress(order) {
			stats.OrderStatus.InProgress++
		}
		if isCompleted(order) {
			stats.OrderStatus.Completed++
		}

		resolvedToday, urgent, late := false, false, false
		for j := range order.Activities {
			a := &order.Activities[j]
			if a.Completed != nil && inRange(*a.Completed, today, tomorrow) {
				resolvedToday = true
			}
			if a.IsCompleted() || a.EndDate == nil {
				continue
			}
			left := a.EndDate.Sub(now)
			if left > 0 && left <= urgentWindow {
				urgent = true
			}
			if a.EndDate.Before(now) {
				late = true
			}
			if !a.EndDate.Before(today) && !a.EndDate.After(nextWeek) {
				stats.UpcomingAppointments = append(stats.UpcomingAppointments, toAppointment(a, now))
			}
		}

		if resolvedToday {
			stats.DailyStats.Resolved++
		}
		if urgent {
			stats.Notifications++
		}
		if late {
			overdue++
		}
	}

	stats.DailyStats.Pending = stats.OrderStatus.InProgress
	stats.DailyStats.Rejected = 0

	overdueWarning := ""
	if overdue > 0 {
		overdueWarning = fmt.Sprintf("%d ordini in ritardo", overdue)
	}
	for _, w := range []string{opts.LeadingAdvisory, overdueWarning, opts.TrailingAdvisory} {
		if w != "" {
			stats.Warnings = append(stats.Warnings, w)
		}
	}

	// Сравнение строк "HH:mm" лексикографическое: верно внутри одного дня.
	sort.SliceStable(stats.UpcomingAppointments, func(i, j int) bool {
		return stats.UpcomingAppointments[i].Ora < stats.UpcomingAppointments[j].Ora
	})
	if len(stats.UpcomingAppointments) > maxUpcomingAppointments {
		stats.UpcomingAppointments = stats.UpcomingAppointments[:maxUpcomingAppointments]
	}

	return stats
}

// isOpen: нет активностей либо есть хотя бы одна в Standby.
func isOpen(o *entities.Order) bool {
	if !o.HasActivities() {
		return true
	}
	for i := range o.Activities {
		if o.Activities[i].Status.IsStandby() {
			return true
		}
	}
	return false
}

func isInProgress(o *entities.Order) bool {
	for i := range o.Activities {
		s := o.Activities[i].Status
		if !s.IsStandby() && !s.IsCompleted() {
			return true
		}
	}
	return false
}

func isCompleted(o *entities.Order) bool {
	if !o.HasActivities() {
		return false
	}
	for i := range o.Activities {
		if !o.Activities[i].IsCompleted() {
			return false
		}
	}
	return true
}

func toAppointment(a *entities.Activity, now time.Time) dto.AppointmentDTO {
	title := a.Name
	if title == "" {
		title = constants.DefaultActivityTitle
	}

	state := constants.AppointmentScheduled
	switch {
	case a.IsCompleted():
		state = constants.AppointmentCompleted
	case a.EndDate.Before(now):
		state = constants.AppointmentOverdue
	}

	return dto.AppointmentDTO{
		Ora:    a.EndDate.In(now.Location()).Format("15:04"),
		Titolo: title,
		Stato:  string(state),
		Colore: constants.AppointmentColors[state],
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// inRange проверяет t ∈ [from, to).
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
