package constants

// Состояние записи в "ближайших встречах" дашборда.
type AppointmentState string

const (
	AppointmentCompleted AppointmentState = "Completato"
	AppointmentOverdue   AppointmentState = "In ritardo"
	AppointmentScheduled AppointmentState = "Programmato"
)

var AppointmentColors = map[AppointmentState]string{
	AppointmentCompleted: "success",
	AppointmentOverdue:   "error",
	AppointmentScheduled: "warning",
}

// DefaultEventColor применяется слоем представления, если у активности нет цвета.
const DefaultEventColor = "#3788d8"
