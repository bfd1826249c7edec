package seeders

import "agenda-system/pkg/constants"

var customersData = []struct {
	Name  string
	Note  string
	Phone string
}{
	{Name: "Rossi", Note: "Citofono 3, secondo piano", Phone: "+39 02 1234567"},
	{Name: "Bianchi", Phone: "+39 06 7654321"},
	{Name: "Esposito", Note: "Solo mattina"},
}

var operatorsData = []struct {
	WorkerName string
	Phone      string
}{
	{WorkerName: "Mario", Phone: "+39 333 1111111"},
	{WorkerName: "Luigi", Phone: "+39 333 2222222"},
	{WorkerName: "Giulia", Phone: "+39 333 3333333"},
}

// Смещения дат считаются в днях и часах от полуночи дня запуска сидера.
type demoActivity struct {
	Name        string
	Status      constants.ActivityStatus
	StartDay    int
	StartHour   int
	Hours       int
	Responsible string
	Color       string
	InCalendar  bool
	Notes       []string
}

var ordersData = []struct {
	Name       string
	Customer   int // индекс в customersData, -1 - без клиента
	Manager    string
	Confirmed  bool
	Urgency    constants.Urgency
	CreatedDay int
	Activities []demoActivity
}{
	{
		Name: "Cucina", Customer: 0, Manager: "Giulia", Confirmed: true, Urgency: constants.UrgencyHigh, CreatedDay: -3,
		Activities: []demoActivity{
			{Name: "Rilievo", Status: constants.ActivityStatusCompleted, StartDay: -2, StartHour: 9, Hours: 2, Responsible: "Mario", InCalendar: true},
			{Name: "Posa", Status: constants.ActivityStatusInProgress, StartDay: 0, StartHour: 14, Hours: 4, Responsible: "Mario", Color: "#1976d2", InCalendar: true, Notes: []string{"Portare il trapano a colonna"}},
			{Name: "Collaudo", Status: constants.ActivityStatusStandby, StartDay: 2, StartHour: 10, Hours: 1, Responsible: "Luigi", InCalendar: true},
		},
	},
	{
		Name: "Bagno", Customer: 1, Manager: "Giulia", Urgency: constants.UrgencyMedium, CreatedDay: 0,
		Activities: []demoActivity{
			{Name: "Preventivo", Status: constants.ActivityStatusAwaitingInput, StartDay: 1, StartHour: 11, Hours: 1, Responsible: "Luigi", InCalendar: true},
		},
	},
	{
		Name: "Serramenti", Customer: 2, Manager: "Mario", Confirmed: true, Urgency: constants.UrgencyLow, CreatedDay: -10,
		Activities: []demoActivity{
			{Name: "Sostituzione", Status: constants.ActivityStatusInProgress, StartDay: -4, StartHour: 8, Hours: 6, Responsible: "Giulia", Notes: []string{"Ritardo fornitore"}},
		},
	},
	{Name: "Sopralluogo magazzino", Customer: -1, Urgency: constants.UrgencyUnknown, CreatedDay: -1},
}
