package services

import (
	"context"
	"io"
	"time"

	"apexcrm/internal/models"
	"apexcrm/internal/pdf"
	"apexcrm/internal/pipeline"
	"apexcrm/internal/repositories"
)

type ReportService interface {
	Board(ctx context.Context, query string) (*pipeline.Summary, error)
	PipelinePDF(ctx context.Context, w io.Writer) error
}

type reportService struct {
	deals repositories.DealRepository
	gen   pdf.Generator
	now   func() time.Time
}

func NewReportService(deals repositories.DealRepository, gen pdf.Generator) ReportService {
	return &reportService{deals: deals, gen: gen, now: time.Now}
}

// Board groups every deal by stage. The query narrows the cards but the
// totals always cover the whole pipeline.
func (s *reportService) Board(ctx context.Context, query string) (*pipeline.Summary, error) {
	all, _, err := s.deals.List(ctx, models.DealFilter{}, models.Page{})
	if err != nil {
		return nil, err
	}
	sum := pipeline.Summarize(all, pipeline.Filter(all, query))
	return &sum, nil
}

func (s *reportService) PipelinePDF(ctx context.Context, w io.Writer) error {
	all, _, err := s.deals.List(ctx, models.DealFilter{}, models.Page{})
	if err != nil {
		return err
	}
	sum := pipeline.Summarize(all, all)
	data := pdf.ReportData{
		GeneratedAt:   s.now(),
		TotalValue:    sum.TotalValue,
		WeightedValue: sum.WeightedValue,
	}
	for _, col := range sum.Columns {
		data.Rows = append(data.Rows, pdf.ReportRow{
			Stage:    col.Stage.Name,
			Deals:    len(col.Deals),
			Total:    col.Total,
			Weighted: pipeline.WeightedValue(col.Deals),
		})
	}
	for _, d := range all {
		data.Deals = append(data.Deals, pdf.ReportDeal{
			Title:             d.Title,
			Customer:          d.Customer,
			Stage:             pipeline.StageName(d.Stage),
			Value:             d.Value,
			Probability:       d.Probability,
			ExpectedCloseDate: d.ExpectedCloseDate.String(),
		})
	}
	return s.gen.PipelineReport(w, data)
}
