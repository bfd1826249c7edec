package repositories

import (
	"github.com/aarondl/null/v8"

	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
)

const (
	orderFields    = "o.id, o.order_name, o.created_at, o.start_date, o.is_confirmed, o.urgency, o.client_id, o.order_manager"
	activityFields = "a.id, a.name, a.status, a.start_date, a.end_date, a.completed, a.responsible, a.color, a.in_calendar, a.note, a.order_id"
	customerFields = "c.id, c.customer_name, c.customer_note, c.customer_phone"
	operatorFields = "op.id, op.worker_name, op.operator_note, op.operator_phone"
)

func scanOrder(row rowScanner, extra ...any) (entities.Order, error) {
	var o entities.Order
	var startDate null.Time
	var urgency null.String
	var clientID, managerID null.Uint64

	dest := append([]any{
		&o.ID, &o.OrderName, &o.CreatedAt, &startDate, &o.IsConfirmed, &urgency, &clientID, &managerID,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return entities.Order{}, err
	}

	o.StartDate = startDate.Ptr()
	o.Urgency = constants.ParseUrgency(urgency.String)
	o.ClientID = clientID.Ptr()
	o.OrderManager = managerID.Ptr()
	return o, nil
}

func scanActivity(row rowScanner) (entities.Activity, error) {
	var a entities.Activity
	var status, responsible, color null.String
	var startDate, endDate, completed null.Time
	var notes []string

	err := row.Scan(
		&a.ID, &a.Name, &status, &startDate, &endDate, &completed,
		&responsible, &color, &a.InCalendar, &notes, &a.OrderID,
	)
	if err != nil {
		return entities.Activity{}, err
	}

	a.Status = constants.ParseActivityStatus(status.String)
	a.StartDate = startDate.Ptr()
	a.EndDate = endDate.Ptr()
	// completed без статуса "Completato" считаем мусором старых записей.
	if a.Status.IsCompleted() {
		a.Completed = completed.Ptr()
	}
	a.Responsible = responsible.String
	a.Color = color.String
	a.Notes = notes
	if a.Notes == nil {
		a.Notes = []string{}
	}
	return a, nil
}

func scanCustomer(row rowScanner) (entities.Customer, error) {
	var c entities.Customer
	var note, phone null.String
	if err := row.Scan(&c.ID, &c.CustomerName, &note, &phone); err != nil {
		return entities.Customer{}, err
	}
	c.CustomerNote = note.String
	c.CustomerPhone = phone.String
	return c, nil
}

func scanOperator(row rowScanner) (entities.Operator, error) {
	var op entities.Operator
	var note, phone null.String
	if err := row.Scan(&op.ID, &op.WorkerName, &note, &phone); err != nil {
		return entities.Operator{}, err
	}
	op.OperatorNote = note.String
	op.OperatorPhone = phone.String
	return op, nil
}

// joinedCustomer - колонки клиента из LEFT JOIN, все могут быть NULL.
type joinedCustomer struct {
	id                null.Uint64
	name, note, phone null.String
}

func (j *joinedCustomer) dest() []any {
	return []any{&j.id, &j.name, &j.note, &j.phone}
}

func (j *joinedCustomer) entity() *entities.Customer {
	if !j.id.Valid {
		return nil
	}
	return &entities.Customer{ID: j.id.Uint64, CustomerName: j.name.String, CustomerNote: j.note.String, CustomerPhone: j.phone.String}
}

type joinedOperator struct {
	id                null.Uint64
	name, note, phone null.String
}

func (j *joinedOperator) dest() []any {
	return []any{&j.id, &j.name, &j.note, &j.phone}
}

func (j *joinedOperator) entity() *entities.Operator {
	if !j.id.Valid {
		return nil
	}
	return &entities.Operator{ID: j.id.Uint64, WorkerName: j.name.String, OperatorNote: j.note.String, OperatorPhone: j.phone.String}
}
