package dto

// DailyStatsDTO - счетчики за текущий день.
type DailyStatsDTO struct {
	New      int `json:"new"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// OrderStatusDTO - классификация заказов. Группы пересекаются: один заказ может попасть в несколько.
type OrderStatusDTO struct {
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type AppointmentDTO struct {
	Ora    string `json:"ora"`
	Titolo string `json:"titolo"`
	Stato  string `json:"stato"`
	Colore string `json:"colore"`
}

type DashboardStatsDTO struct {
	DailyStats           DailyStatsDTO    `json:"dailyStats"`
	OrderStatus          OrderStatusDTO   `json:"orderStatus"`
	Notifications        int              `json:"notifications"`
	Warnings             []string         `json:"warnings"`
	UpcomingAppointments []AppointmentDTO `json:"upcomingAppointments"`
}

// EmptyDashboardStats - состояние "нет данных": все нули и пустые списки.
func EmptyDashboardStats() DashboardStatsDTO {
	return DashboardStatsDTO{
		Warnings:             []string{},
		UpcomingAppointments: []AppointmentDTO{},
	}
}
