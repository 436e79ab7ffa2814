package services

import (
	"fmt"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
)

type ToothState struct {
	Tooth     int                   `json:"tooth"`
	Condition models.ToothCondition `json:"condition"`
}

// Chart is the per-tooth condition map of one patient, kept in display
// order: four quadrants, each from the patient's right to left.
type Chart struct {
	PatientType models.PatientType `json:"patient_type"`
	Quadrants   [][]ToothState     `json:"quadrants"`

	pos    map[int][2]int
	latest map[int]models.Treatment
}

// NewChart returns an all-healthy chart for the patient type.
func NewChart(pt models.PatientType) (*Chart, error) {
	layout, err := models.ToothLayout(pt)
	if err != nil {
		return nil, apperrors.Invalid("patient_type", err.Error())
	}

	c := &Chart{
		PatientType: pt,
		Quadrants:   make([][]ToothState, len(layout)),
		pos:         make(map[int][2]int),
		latest:      make(map[int]models.Treatment),
	}
	for q, teeth := range layout {
		c.Quadrants[q] = make([]ToothState, len(teeth))
		for i, tooth := range teeth {
			c.Quadrants[q][i] = ToothState{Tooth: tooth, Condition: models.ConditionHealthy}
			c.pos[tooth] = [2]int{q, i}
		}
	}
	return c, nil
}

// ResolveChart projects a treatment history onto the chart layout. The most
// recent treatment per tooth wins; entries sharing a timestamp and sequence
// resolve to the one later in history. Teeth outside the layout are
// skipped.
func ResolveChart(pt models.PatientType, history []models.Treatment) (*Chart, error) {
	c, err := NewChart(pt)
	if err != nil {
		return nil, err
	}
	for _, t := range history {
		c.Apply(t)
	}
	return c, nil
}

// Apply folds one more treatment into the chart, touching only its tooth.
// It reports whether the displayed condition source changed.
func (c *Chart) Apply(t models.Treatment) bool {
	p, ok := c.pos[t.ToothNumber]
	if !ok {
		return false
	}
	if cur, seen := c.latest[t.ToothNumber]; seen && t.Before(cur) {
		return false
	}
	c.latest[t.ToothNumber] = t
	c.Quadrants[p[0]][p[1]].Condition = t.Condition
	return true
}

// Condition returns the resolved condition of tooth.
func (c *Chart) Condition(tooth int) (models.ToothCondition, error) {
	p, ok := c.pos[tooth]
	if !ok {
		return "", apperrors.Invalid("tooth_number", fmt.Sprintf("tooth %d is not part of the %s chart", tooth, c.PatientType))
	}
	return c.Quadrants[p[0]][p[1]].Condition, nil
}

// Map flattens the chart into tooth number -> condition.
func (c *Chart) Map() map[int]models.ToothCondition {
	out := make(map[int]models.ToothCondition, len(c.pos))
	for _, q := range c.Quadrants {
		for _, st := range q {
			out[st.Tooth] = st.Condition
		}
	}
	return out
}
