package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTooth(t *testing.T) {
	tests := []struct {
		name  string
		typ   PatientType
		tooth int
		want  bool
	}{
		{"adult upper right central", PatientAdult, 11, true},
		{"adult lower left molar", PatientAdult, 36, true},
		{"adult wisdom", PatientAdult, 48, true},
		{"adult position nine", PatientAdult, 19, false},
		{"adult primary tooth", PatientAdult, 51, false},
		{"child primary", PatientChild, 55, true},
		{"child lower left", PatientChild, 71, true},
		{"child position six", PatientChild, 56, false},
		{"child permanent tooth", PatientChild, 16, false},
		{"zero position", PatientAdult, 10, false},
		{"unknown type", PatientType("senior"), 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTooth(tt.typ, tt.tooth))
		})
	}
}

func TestToothLayout(t *testing.T) {
	adult, err := ToothLayout(PatientAdult)
	require.NoError(t, err)
	require.Len(t, adult, 4)
	total := 0
	for _, q := range adult {
		assert.Len(t, q, 8)
		total += len(q)
		for _, tooth := range q {
			assert.True(t, ValidTooth(PatientAdult, tooth), "tooth %d", tooth)
		}
	}
	assert.Equal(t, 32, total)

	child, err := ToothLayout(PatientChild)
	require.NoError(t, err)
	for _, q := range child {
		assert.Len(t, q, 5)
	}

	// callers get a copy
	child[0][0] = 99
	again, _ := ToothLayout(PatientChild)
	assert.Equal(t, 55, again[0][0])

	_, err = ToothLayout("")
	assert.Error(t, err)
}

func TestParseClosedSets(t *testing.T) {
	c, err := ParseToothCondition("filling")
	require.NoError(t, err)
	assert.Equal(t, ConditionFilling, c)
	_, err = ParseToothCondition("FILLING")
	assert.Error(t, err)

	_, err = ParsePatientType("adult")
	assert.NoError(t, err)
	_, err = ParsePatientType("teen")
	assert.Error(t, err)

	st, err := ParseAppointmentStatus("no-show")
	require.NoError(t, err)
	assert.Equal(t, AppointmentNoShow, st)
	_, err = ParseAppointmentStatus("fulfilled")
	assert.Error(t, err)

	_, err = ParseTransactionCategory("payment")
	assert.Error(t, err)
	_, err = ParseTransactionType("expense")
	assert.NoError(t, err)
}

func TestSortTreatmentsOrdersByTimeThenSequence(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ts := []Treatment{
		{ID: "c", CreatedAt: t0.Add(time.Minute), Seq: 1},
		{ID: "b", CreatedAt: t0, Seq: 2},
		{ID: "a", CreatedAt: t0, Seq: 1},
	}
	SortTreatments(ts)
	assert.Equal(t, []string{"a", "b", "c"}, []string{ts[0].ID, ts[1].ID, ts[2].ID})
}
