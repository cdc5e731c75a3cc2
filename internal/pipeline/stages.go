// Package pipeline holds the sales-pipeline board: stage configuration,
// aggregation, search, the deal form and the drag-and-drop session.
package pipeline

import "apexcrm/internal/models"

// StageConfig describes one board column.
type StageConfig struct {
	ID          models.Stage `json:"id"`
	Name        string       `json:"name"`
	Color       string       `json:"color"`
	Probability int          `json:"probability"`
}

// Stages is the fixed, ordered column layout of the board (left to right).
var Stages = []StageConfig{
	{ID: models.StageLead, Name: "Lead", Color: "bg-blue-500", Probability: 20},
	{ID: models.StageQualified, Name: "Qualified", Color: "bg-indigo-500", Probability: 40},
	{ID: models.StageProposal, Name: "Proposal", Color: "bg-purple-500", Probability: 60},
	{ID: models.StageNegotiation, Name: "Negotiation", Color: "bg-pink-500", Probability: 80},
	{ID: models.StageClosed, Name: "Closed Won", Color: "bg-green-500", Probability: 100},
}

// LookupStage returns the configuration of a stage id.
func LookupStage(id models.Stage) (StageConfig, bool) {
	for _, s := range Stages {
		if s.ID == id {
			return s, true
		}
	}
	return StageConfig{}, false
}

// ProbabilityFor is the win probability a deal takes when it lands on stage id.
func ProbabilityFor(id models.Stage) (int, bool) {
	s, ok := LookupStage(id)
	if !ok {
		return 0, false
	}
	return s.Probability, true
}

// StageName returns the display name, falling back to the raw id.
func StageName(id models.Stage) string {
	if s, ok := LookupStage(id); ok {
		return s.Name
	}
	return string(id)
}

// MoveTo returns a copy of d placed on stage with the stage's probability.
func MoveTo(d models.Deal, stage models.Stage) (models.Deal, bool) {
	p, ok := ProbabilityFor(stage)
	if !ok {
		return d, false
	}
	d.Stage = stage
	d.Probability = p
	return d, true
}
