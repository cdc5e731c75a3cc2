package services

import (
	"context"
	"time"

	"apexcrm/internal/models"
	"apexcrm/internal/pipeline"
	"apexcrm/internal/repositories"
)

type ContactService interface {
	List(ctx context.Context, filter models.ContactFilter, page models.Page) (*models.ListResult[models.Contact], error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
}

type contactService struct {
	repo repositories.ContactRepository
	now  func() time.Time
}

func NewContactService(repo repositories.ContactRepository) ContactService {
	return &contactService{repo: repo, now: time.Now}
}

func validateContact(c *models.Contact) error {
	v := validation{}
	v.check(!blank(c.Name), "name", "Contact name is required")
	v.check(!blank(c.Email), "email", "Email is required")
	v.check(blank(c.Email) || pipeline.ValidEmail(c.Email), "email", "Email is invalid")
	switch c.Type {
	case models.ContactTypeClient, models.ContactTypeLead, models.ContactTypeVendor:
	default:
		v.check(false, "type", "Unknown contact type")
	}
	v.check(c.Status == models.ContactActive || c.Status == models.ContactInactive, "status", "Unknown contact status")
	return v.err()
}

func (s *contactService) List(ctx context.Context, filter models.ContactFilter, page models.Page) (*models.ListResult[models.Contact], error) {
	res, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[models.Contact]{Data: res, Total: total}, nil
}

func (s *contactService) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *contactService) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	contact := *c
	if contact.Type == "" {
		contact.Type = models.ContactTypeLead
	}
	if contact.Status == "" {
		contact.Status = models.ContactActive
	}
	if err := validateContact(&contact); err != nil {
		return nil, err
	}
	now := s.now()
	contact.ID = 0
	contact.CreatedAt, contact.UpdatedAt = now, now
	if err := s.repo.Create(ctx, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *contactService) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	contact := *c
	if err := validateContact(&contact); err != nil {
		return nil, err
	}
	contact.CreatedAt = existing.CreatedAt
	contact.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *contactService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
