package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-system/internal/entities"
	"agenda-system/pkg/constants"
)

func uid(v uint64) *uint64 { return &v }

func agendaFixture() ([]entities.Activity, []entities.Order, []entities.Customer) {
	end := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
	activities := []entities.Activity{
		{ID: 1, Name: "Rilievo", Status: constants.ActivityStatusInProgress, EndDate: &end, Responsible: "Mario", OrderID: 100},
		{ID: 2, Name: "Posa", Status: constants.ActivityStatusStandby, Responsible: "Mario", OrderID: 200},
		{ID: 3, Name: "Collaudo", Status: constants.ActivityStatusCompleted, Responsible: "Mario", OrderID: 999},
	}
	orders := []entities.Order{
		{ID: 100, OrderName: "Cucina", ClientID: uid(1)},
		{ID: 200, OrderName: "Bagno", ClientID: uid(42)},
	}
	customers := []entities.Customer{{ID: 1, CustomerName: "Rossi"}}
	return activities, orders, customers
}

func TestOrderLabels(t *testing.T) {
	_, orders, customers := agendaFixture()

	label := OrderLabels(orders, customers)
	assert.Equal(t, "Rossi - Cucina", label(100))
	assert.Equal(t, " - Bagno", label(200), "клиента нет: пустой сегмент")
	assert.Equal(t, "Ordine non trovato", label(999))

	loading := OrderLabels(nil, customers)
	assert.Equal(t, "Caricamento...", loading(100))

	empty := OrderLabels([]entities.Order{}, nil)
	assert.Equal(t, "Ordine non trovato", empty(100))
}

func TestAgendaResolver_Resolve(t *testing.T) {
	activities, orders, customers := agendaFixture()
	r := NewAgendaResolver()

	entries, changed := r.Resolve(activities, orders, customers)
	require.True(t, changed)
	require.Len(t, entries, 3)
	assert.Equal(t, "Rossi - Cucina - Rilievo - in corso", entries[0].Title)
	assert.Equal(t, " - Bagno - Posa - Standby", entries[1].Title)
	assert.Equal(t, "Ordine non trovato - Collaudo - Completato", entries[2].Title)
}

func TestAgendaResolver_SkipsUnchangedContent(t *testing.T) {
	activities, orders, customers := agendaFixture()
	r := NewAgendaResolver()

	first, changed := r.Resolve(activities, orders, customers)
	require.True(t, changed)

	// Коллекции пересобраны заново, как после нового чтения, но по значению те же.
	activities2, orders2, customers2 := agendaFixture()
	second, changed := r.Resolve(activities2, orders2, customers2)
	assert.False(t, changed)
	require.Len(t, second, len(first))
	assert.Same(t, &first[0], &second[0], "при равном содержимом возвращается прежний срез")

	orders2[0].OrderName = "Cucina nuova"
	third, changed := r.Resolve(activities2, orders2, customers2)
	assert.True(t, changed)
	assert.Equal(t, "Rossi - Cucina nuova - Rilievo - in corso", third[0].Title)
}

func TestAgendaResolver_DetectsTimeChange(t *testing.T) {
	activities, orders, customers := agendaFixture()
	r := NewAgendaResolver()
	_, _ = r.Resolve(activities, orders, customers)

	moved := activities[0].EndDate.Add(time.Hour)
	activities[0].EndDate = &moved
	_, changed := r.Resolve(activities, orders, customers)
	assert.True(t, changed)
}

func TestAgendaResolver_LoadingThenLoaded(t *testing.T) {
	activities, orders, customers := agendaFixture()
	r := NewAgendaResolver()

	entries, _ := r.Resolve(activities, nil, customers)
	assert.Equal(t, "Caricamento... - Rilievo - in corso", entries[0].Title)

	entries, changed := r.Resolve(activities, orders, customers)
	assert.True(t, changed)
	assert.Equal(t, "Rossi - Cucina - Rilievo - in corso", entries[0].Title)
}

func TestAgendaResolver_UnknownStatusKeepsStoredValue(t *testing.T) {
	activities, orders, customers := agendaFixture()
	activities[1].Status = constants.ParseActivityStatus("Annullato")

	entries, _ := NewAgendaResolver().Resolve(activities, orders, customers)
	require.Len(t, entries, 3)
	assert.Equal(t, " - Bagno - Posa - Annullato", entries[1].Title)
	assert.Equal(t, "Annullato", entries[1].Status)
}

func TestFingerprint_NilStartDiffersFromEpoch(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	withoutStart := []entities.Activity{{ID: 1, Name: "Rilievo", OrderID: 100}}
	atEpoch := []entities.Activity{{ID: 1, Name: "Rilievo", OrderID: 100, StartDate: &epoch, EndDate: &epoch}}
	_, orders, customers := agendaFixture()
	label := OrderLabels(orders, customers)

	a, err := Fingerprint(ProjectOperatorAgenda(withoutStart, label))
	require.NoError(t, err)
	b, err := Fingerprint(ProjectOperatorAgenda(atEpoch, label))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "отсутствующая дата не совпадает с нулевым временем Unix")

	r := NewAgendaResolver()
	_, _ = r.Resolve(withoutStart, orders, customers)
	_, changed := r.Resolve(atEpoch, orders, customers)
	assert.True(t, changed)
}
