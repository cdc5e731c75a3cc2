package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"apexcrm/internal/models"
)

func TestStagesOrder(t *testing.T) {
	want := []models.Stage{models.StageLead, models.StageQualified, models.StageProposal, models.StageNegotiation, models.StageClosed}
	got := make([]models.Stage, 0, len(Stages))
	for _, s := range Stages {
		got = append(got, s.ID)
	}
	assert.Equal(t, want, got)
}

func TestProbabilityFor(t *testing.T) {
	cases := map[models.Stage]int{
		models.StageLead:        20,
		models.StageQualified:   40,
		models.StageProposal:    60,
		models.StageNegotiation: 80,
		models.StageClosed:      100,
	}
	for stage, want := range cases {
		got, ok := ProbabilityFor(stage)
		assert.True(t, ok)
		assert.Equal(t, want, got, stage)
	}
	_, ok := ProbabilityFor("won")
	assert.False(t, ok)
}

func TestMoveToOverridesProbability(t *testing.T) {
	d := models.Deal{ID: 7, Stage: models.StageLead, Probability: 5}
	moved, ok := MoveTo(d, models.StageNegotiation)
	assert.True(t, ok)
	assert.Equal(t, 80, moved.Probability)
	assert.Equal(t, models.StageNegotiation, moved.Stage)
	assert.Equal(t, models.StageLead, d.Stage, "input deal untouched")
}

func TestStageName(t *testing.T) {
	assert.Equal(t, "Closed Won", StageName(models.StageClosed))
	assert.Equal(t, "mystery", StageName("mystery"))
}
