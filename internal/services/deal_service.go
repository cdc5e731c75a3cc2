package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"apexcrm/internal/models"
	"apexcrm/internal/pipeline"
	"apexcrm/internal/repositories"
)

// DealService is the record adapter for the deal table. It satisfies
// pipeline.Store.
type DealService interface {
	List(ctx context.Context, filter models.DealFilter, page models.Page) (*models.ListResult[models.Deal], error)
	GetByID(ctx context.Context, id int64) (*models.Deal, error)
	Create(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Update(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Delete(ctx context.Context, id int64) error
	MoveStage(ctx context.Context, id int64, stage models.Stage) (*models.Deal, error)
}

// DealRecorder counts deal lifecycle events.
type DealRecorder interface {
	DealCreated()
	DealDeleted()
}

type dealService struct {
	repo     repositories.DealRepository
	notifier Notifier
	rec      DealRecorder
	log      *zap.Logger
	now      func() time.Time
}

type DealOption func(*dealService)

func WithDealNotifier(n Notifier) DealOption { return func(s *dealService) { s.notifier = n } }
func WithDealRecorder(r DealRecorder) DealOption {
	return func(s *dealService) { s.rec = r }
}
func WithDealLogger(l *zap.Logger) DealOption { return func(s *dealService) { s.log = l } }
func WithDealClock(now func() time.Time) DealOption {
	return func(s *dealService) { s.now = now }
}

func NewDealService(repo repositories.DealRepository, opts ...DealOption) DealService {
	s := &dealService{repo: repo, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *dealService) List(ctx context.Context, filter models.DealFilter, page models.Page) (*models.ListResult[models.Deal], error) {
	deals, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[models.Deal]{Data: deals, Total: total}, nil
}

func (s *dealService) GetByID(ctx context.Context, id int64) (*models.Deal, error) {
	return s.repo.GetByID(ctx, id)
}

func validateDeal(d *models.Deal) error {
	v := validation{}
	v.check(!blank(d.Title), "title", "Deal title is required")
	v.check(!blank(d.Customer), "customer", "Customer name is required")
	v.check(d.Value >= 0, "value", "Deal value cannot be negative")
	v.check(d.Stage.Valid(), "stage", "Unknown stage")
	v.check(d.Type.Valid(), "type", "Unknown deal type")
	v.check(d.Probability >= 0 && d.Probability <= 100, "probability", "Probability must be between 0 and 100")
	v.check(d.Email == "" || pipeline.ValidEmail(d.Email), "email", "Email is invalid")
	return v.err()
}

// Create stores a new deal. A missing stage or type defaults to lead and
// company; probability is taken as given.
func (s *dealService) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	deal := *d
	if deal.Stage == "" {
		deal.Stage = models.StageLead
	}
	if deal.Type == "" {
		deal.Type = models.DealTypeCompany
	}
	if err := validateDeal(&deal); err != nil {
		return nil, err
	}
	now := s.now()
	deal.ID = 0
	deal.CreatedAt = now
	deal.UpdatedAt = now
	if err := s.repo.Create(ctx, &deal); err != nil {
		return nil, err
	}
	if s.rec != nil {
		s.rec.DealCreated()
	}
	s.log.Info("deal created", zap.Int64("deal_id", deal.ID), zap.String("stage", string(deal.Stage)))
	return &deal, nil
}

func (s *dealService) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	existing, err := s.repo.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	deal := *d
	if err := validateDeal(&deal); err != nil {
		return nil, err
	}
	deal.CreatedAt = existing.CreatedAt
	deal.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &deal); err != nil {
		return nil, err
	}
	s.afterStageChange(ctx, existing.Stage, deal)
	return &deal, nil
}

// MoveStage places a deal on stage with the stage's default probability.
func (s *dealService) MoveStage(ctx context.Context, id int64, stage models.Stage) (*models.Deal, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	moved, ok := pipeline.MoveTo(*existing, stage)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"stage": "Unknown stage"}}
	}
	if err := s.repo.UpdateStage(ctx, id, moved.Stage, moved.Probability); err != nil {
		return nil, err
	}
	moved.UpdatedAt = s.now()
	s.afterStageChange(ctx, existing.Stage, moved)
	return &moved, nil
}

func (s *dealService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.rec != nil {
		s.rec.DealDeleted()
	}
	s.log.Info("deal deleted", zap.Int64("deal_id", id))
	return nil
}

func (s *dealService) afterStageChange(ctx context.Context, from models.Stage, d models.Deal) {
	if from == d.Stage || d.Stage != models.StageClosed || s.notifier == nil {
		return
	}
	n := NewNotification(models.KindDealWon, models.LevelSuccess,
		"Deal won: "+d.Title,
		fmt.Sprintf("%s closed %s worth $%.2f.", d.Customer, d.Title, d.Value))
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("deal won notification", zap.Int64("deal_id", d.ID), zap.Error(err))
	}
}
