package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"apexcrm/internal/cache"
	"apexcrm/internal/models"
	"apexcrm/internal/pipeline"
	"apexcrm/internal/repositories"
)

// DashboardStats is the summary row shown on the dashboard.
type DashboardStats struct {
	Contacts          int                           `json:"contacts"`
	ActiveDeals       int                           `json:"active_deals"`
	Campaigns         int                           `json:"campaigns"`
	Tickets           int                           `json:"tickets"`
	TotalDealValue    float64                       `json:"total_deal_value"`
	WeightedDealValue float64                       `json:"weighted_deal_value"`
	TicketsByPriority map[models.TicketPriority]int `json:"tickets_by_priority"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Invalidate(ctx context.Context)
}

const statsKey = "dashboard:stats"

type dashboardService struct {
	repos repositories.Set
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewDashboardService loads stats from all tables. c may be nil.
func NewDashboardService(repos repositories.Set, c cache.Cache, ttl time.Duration, log *zap.Logger) DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &dashboardService{repos: repos, cache: c, ttl: ttl, log: log}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		ok, err := s.cache.Get(ctx, statsKey, &cached)
		if err != nil {
			s.log.Warn("dashboard cache read", zap.Error(err))
		} else if ok {
			return &cached, nil
		}
	}

	stats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, statsKey, stats, s.ttl); err != nil {
			s.log.Warn("dashboard cache write", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *dashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsKey); err != nil {
		s.log.Warn("dashboard cache invalidate", zap.Error(err))
	}
}

// load fetches every table in parallel. Counts come from the totals, so
// only deals and tickets are read in full.
func (s *dashboardService) load(ctx context.Context) (*DashboardStats, error) {
	var (
		stats   = &DashboardStats{TicketsByPriority: make(map[models.TicketPriority]int, len(models.Priorities))}
		deals   []models.Deal
		tickets []models.SupportTicket
		one     = models.Page{Limit: 1}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, n, err := s.repos.Contacts.List(gctx, models.ContactFilter{}, one)
		stats.Contacts = n
		return err
	})
	g.Go(func() error {
		var err error
		deals, _, err = s.repos.Deals.List(gctx, models.DealFilter{}, models.Page{})
		return err
	})
	g.Go(func() error {
		_, n, err := s.repos.Campaigns.List(gctx, models.CampaignFilter{}, one)
		stats.Campaigns = n
		return err
	})
	g.Go(func() error {
		var err error
		tickets, stats.Tickets, err = s.repos.Tickets.List(gctx, models.TicketFilter{}, models.Page{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.ActiveDeals = pipeline.ActiveCount(deals)
	stats.TotalDealValue = pipeline.TotalValue(deals)
	stats.WeightedDealValue = pipeline.WeightedValue(deals)
	for _, p := range models.Priorities {
		stats.TicketsByPriority[p] = 0
	}
	for _, t := range tickets {
		if t.Priority.Valid() {
			stats.TicketsByPriority[t.Priority]++
		}
	}
	return stats, nil
}
