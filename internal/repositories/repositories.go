package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"apexcrm/internal/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

type DealRepository interface {
	List(ctx context.Context, filter models.DealFilter, page models.Page) ([]models.Deal, int, error)
	GetByID(ctx context.Context, id int64) (*models.Deal, error)
	Create(ctx context.Context, deal *models.Deal) error
	Update(ctx context.Context, deal *models.Deal) error
	UpdateStage(ctx context.Context, id int64, stage models.Stage, probability int) error
	Delete(ctx context.Context, id int64) error
	// ListOverdue returns open deals whose expected close date is before asOf.
	ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]models.Deal, error)
}

type ContactRepository interface {
	List(ctx context.Context, filter models.ContactFilter, page models.Page) ([]models.Contact, int, error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) error
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, id int64) error
}

type CampaignRepository interface {
	List(ctx context.Context, filter models.CampaignFilter, page models.Page) ([]models.Campaign, int, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	Create(ctx context.Context, c *models.Campaign) error
	Update(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id int64) error
}

type SupportTicketRepository interface {
	List(ctx context.Context, filter models.TicketFilter, page models.Page) ([]models.SupportTicket, int, error)
	GetByID(ctx context.Context, id int64) (*models.SupportTicket, error)
	Create(ctx context.Context, t *models.SupportTicket) error
	Update(ctx context.Context, t *models.SupportTicket) error
	UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// Set bundles one repository per table.
type Set struct {
	Deals     DealRepository
	Contacts  ContactRepository
	Campaigns CampaignRepository
	Tickets   SupportTicketRepository
	Users     UserRepository
}

// NewPostgresSet returns the database/sql backed repositories.
func NewPostgresSet(db *sql.DB) Set {
	return Set{
		Deals:     NewDealRepository(db),
		Contacts:  NewContactRepository(db),
		Campaigns: NewCampaignRepository(db),
		Tickets:   NewSupportTicketRepository(db),
		Users:     NewUserRepository(db),
	}
}
