package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseActivityStatus(t *testing.T) {
	cases := map[string]ActivityStatus{
		"Standby":     ActivityStatusStandby,
		"in corso":    ActivityStatusInProgress,
		" In Attesa ": ActivityStatusAwaitingInput,
		"completato":  ActivityStatusCompleted,
		" Annullato ": ActivityStatus("Annullato"),
		"":            ActivityStatusUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseActivityStatus(raw), "raw=%q", raw)
	}
}

func TestActivityStatusTablesAreExhaustive(t *testing.T) {
	for _, s := range append(AllActivityStatuses, ActivityStatusUnknown) {
		assert.NotEmpty(t, s.Label(), "label for %q", s)
		assert.NotEmpty(t, s.Color(), "color for %q", s)
	}
	assert.False(t, ActivityStatusUnknown.IsValid())
	assert.True(t, ActivityStatusCompleted.IsCompleted())
}

func TestParseActivityStatus_KeepsUnknownValue(t *testing.T) {
	s := ParseActivityStatus("Annullato")
	assert.False(t, s.IsValid())
	assert.False(t, s.IsStandby())
	assert.False(t, s.IsCompleted())
	assert.Equal(t, "Annullato", s.String())
	assert.Equal(t, "Annullato", s.Label())
	assert.Equal(t, "default", s.Color())
}

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, UrgencyHigh, ParseUrgency("alta"))
	assert.Equal(t, UrgencyLow, ParseUrgency("Bassa"))
	assert.Equal(t, Urgency("Critica"), ParseUrgency("Critica"))
	assert.False(t, ParseUrgency("Critica").IsValid())
	assert.Equal(t, "Critica", ParseUrgency("Critica").Label())
	assert.Equal(t, UrgencyUnknown, ParseUrgency(""))
	for _, u := range append(AllUrgencies, UrgencyUnknown) {
		assert.NotEmpty(t, u.Label())
		assert.NotEmpty(t, u.Color())
	}
}
