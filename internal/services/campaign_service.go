package services

import (
	"context"
	"fmt"
	"time"

	"apexcrm/internal/models"
	"apexcrm/internal/repositories"
)

// CampaignView is a campaign with its derived rates.
type CampaignView struct {
	models.Campaign
	models.CampaignRates
}

type CampaignService interface {
	List(ctx context.Context, filter models.CampaignFilter, page models.Page) (*models.ListResult[CampaignView], error)
	GetByID(ctx context.Context, id int64) (*CampaignView, error)
	Create(ctx context.Context, c *models.Campaign) (*CampaignView, error)
	Update(ctx context.Context, c *models.Campaign) (*CampaignView, error)
	Delete(ctx context.Context, id int64) error
}

type campaignService struct {
	repo repositories.CampaignRepository
	now  func() time.Time
}

func NewCampaignService(repo repositories.CampaignRepository) CampaignService {
	return &campaignService{repo: repo, now: time.Now}
}

func view(c models.Campaign) CampaignView {
	return CampaignView{Campaign: c, CampaignRates: c.Rates()}
}

func validateCampaign(c *models.Campaign) error {
	v := validation{}
	v.check(!blank(c.Name), "name", "Campaign name is required")
	switch c.Type {
	case models.CampaignEmail, models.CampaignSocial, models.CampaignEvent, models.CampaignAds:
	default:
		v.check(false, "type", "Unknown campaign type")
	}
	_, known := CampaignTransitions[c.Status]
	v.check(known, "status", "Unknown campaign status")
	v.check(c.Sent >= 0 && c.Opened >= 0 && c.Clicked >= 0 && c.Converted >= 0, "sent", "Counters cannot be negative")
	v.check(c.Opened <= c.Sent, "opened", "Opened cannot exceed sent")
	v.check(c.Clicked <= c.Opened, "clicked", "Clicked cannot exceed opened")
	v.check(c.EndDate.IsZero() || c.StartDate.IsZero() || !c.EndDate.Time.Before(c.StartDate.Time),
		"end_date", "End date must not be before start date")
	return v.err()
}

func (s *campaignService) List(ctx context.Context, filter models.CampaignFilter, page models.Page) (*models.ListResult[CampaignView], error) {
	res, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignView, 0, len(res))
	for _, c := range res {
		out = append(out, view(c))
	}
	return &models.ListResult[CampaignView]{Data: out, Total: total}, nil
}

func (s *campaignService) GetByID(ctx context.Context, id int64) (*CampaignView, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(*c)
	return &v, nil
}

func (s *campaignService) Create(ctx context.Context, c *models.Campaign) (*CampaignView, error) {
	campaign := *c
	if campaign.Status == "" {
		campaign.Status = models.CampaignDraft
	}
	if err := validateCampaign(&campaign); err != nil {
		return nil, err
	}
	now := s.now()
	campaign.ID = 0
	campaign.CreatedAt, campaign.UpdatedAt = now, now
	if err := s.repo.Create(ctx, &campaign); err != nil {
		return nil, err
	}
	v := view(campaign)
	return &v, nil
}

func (s *campaignService) Update(ctx context.Context, c *models.Campaign) (*CampaignView, error) {
	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	campaign := *c
	if err := validateCampaign(&campaign); err != nil {
		return nil, err
	}
	if !canTransition(existing.Status, campaign.Status, CampaignTransitions) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, campaign.Status)
	}
	campaign.CreatedAt = existing.CreatedAt
	campaign.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &campaign); err != nil {
		return nil, err
	}
	v := view(campaign)
	return &v, nil
}

func (s *campaignService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
