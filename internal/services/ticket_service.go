package services

import (
	"context"
	"fmt"
	"time"

	"apexcrm/internal/models"
	"apexcrm/internal/repositories"
)

type SupportTicketService interface {
	List(ctx context.Context, filter models.TicketFilter, page models.Page) (*models.ListResult[models.SupportTicket], error)
	GetByID(ctx context.Context, id int64) (*models.SupportTicket, error)
	Create(ctx context.Context, t *models.SupportTicket) (*models.SupportTicket, error)
	Update(ctx context.Context, t *models.SupportTicket) (*models.SupportTicket, error)
	UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) (*models.SupportTicket, error)
	Delete(ctx context.Context, id int64) error
}

type supportTicketService struct {
	repo repositories.SupportTicketRepository
	now  func() time.Time
}

func NewSupportTicketService(repo repositories.SupportTicketRepository) SupportTicketService {
	return &supportTicketService{repo: repo, now: time.Now}
}

func validateTicket(t *models.SupportTicket) error {
	v := validation{}
	v.check(!blank(t.Subject), "subject", "Subject is required")
	v.check(!blank(t.Customer), "customer", "Customer name is required")
	_, known := TicketTransitions[t.Status]
	v.check(known, "status", "Unknown ticket status")
	v.check(t.Priority.Valid(), "priority", "Unknown ticket priority")
	return v.err()
}

func (s *supportTicketService) List(ctx context.Context, filter models.TicketFilter, page models.Page) (*models.ListResult[models.SupportTicket], error) {
	res, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[models.SupportTicket]{Data: res, Total: total}, nil
}

func (s *supportTicketService) GetByID(ctx context.Context, id int64) (*models.SupportTicket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *supportTicketService) Create(ctx context.Context, t *models.SupportTicket) (*models.SupportTicket, error) {
	ticket := *t
	if ticket.Status == "" {
		ticket.Status = models.TicketOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = models.PriorityMedium
	}
	if err := validateTicket(&ticket); err != nil {
		return nil, err
	}
	now := s.now()
	ticket.ID = 0
	ticket.CreatedAt, ticket.UpdatedAt = now, now
	if err := s.repo.Create(ctx, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *supportTicketService) Update(ctx context.Context, t *models.SupportTicket) (*models.SupportTicket, error) {
	existing, err := s.repo.GetByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	ticket := *t
	if err := validateTicket(&ticket); err != nil {
		return nil, err
	}
	if !canTransition(existing.Status, ticket.Status, TicketTransitions) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, ticket.Status)
	}
	ticket.CreatedAt = existing.CreatedAt
	ticket.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *supportTicketService) UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) (*models.SupportTicket, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, known := TicketTransitions[status]; !known {
		return nil, &ValidationError{Fields: map[string]string{"status": "Unknown ticket status"}}
	}
	if !canTransition(existing.Status, status, TicketTransitions) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	existing.Status = status
	existing.UpdatedAt = s.now()
	return existing, nil
}

func (s *supportTicketService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
