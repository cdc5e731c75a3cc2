package pipeline

import "apexcrm/internal/models"

// StageAggregate is the content of one column.
type StageAggregate struct {
	Stage StageConfig   `json:"stage"`
	Deals []models.Deal `json:"deals"`
	Total float64       `json:"total"`
}

// Aggregate returns the deals on stage (in list order) and the sum of their values.
func Aggregate(deals []models.Deal, stage models.Stage) StageAggregate {
	cfg, ok := LookupStage(stage)
	if !ok {
		cfg = StageConfig{ID: stage, Name: string(stage)}
	}
	agg := StageAggregate{Stage: cfg, Deals: []models.Deal{}}
	for _, d := range deals {
		if d.Stage != stage {
			continue
		}
		agg.Deals = append(agg.Deals, d)
		agg.Total += d.Value
	}
	return agg
}

// StageTotal is the value sum of the deals on stage.
func StageTotal(deals []models.Deal, stage models.Stage) float64 {
	var total float64
	for _, d := range deals {
		if d.Stage == stage {
			total += d.Value
		}
	}
	return total
}

// TotalValue sums the value of every deal regardless of stage.
func TotalValue(deals []models.Deal) float64 {
	var total float64
	for _, d := range deals {
		total += d.Value
	}
	return total
}

// WeightedValue sums value*probability/100 over every deal.
func WeightedValue(deals []models.Deal) float64 {
	var total float64
	for _, d := range deals {
		total += d.Value * float64(d.Probability) / 100
	}
	return total
}

// ActiveCount counts deals that are not closed.
func ActiveCount(deals []models.Deal) int {
	n := 0
	for _, d := range deals {
		if d.Stage != models.StageClosed {
			n++
		}
	}
	return n
}

// Summary is the whole board: one column per stage plus the pipeline totals.
type Summary struct {
	Columns       []StageAggregate `json:"columns"`
	TotalValue    float64          `json:"total_value"`
	WeightedValue float64          `json:"weighted_value"`
}

// Summarize groups visible into columns. Column totals and the pipeline
// totals are computed over all, so a search narrows the cards but not the sums.
func Summarize(all, visible []models.Deal) Summary {
	s := Summary{
		Columns:       make([]StageAggregate, 0, len(Stages)),
		TotalValue:    TotalValue(all),
		WeightedValue: WeightedValue(all),
	}
	for _, stage := range Stages {
		col := Aggregate(visible, stage.ID)
		col.Total = StageTotal(all, stage.ID)
		s.Columns = append(s.Columns, col)
	}
	return s
}
