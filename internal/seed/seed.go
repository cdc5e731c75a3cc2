// Package seed loads demo records into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"apexcrm/internal/models"
	"apexcrm/internal/repositories"
)

//go:embed fixture.yaml
var defaultFixture []byte

type dealRow struct {
	Title             string  `yaml:"title"`
	Customer          string  `yaml:"customer"`
	Value             float64 `yaml:"value"`
	Stage             string  `yaml:"stage"`
	Probability       int     `yaml:"probability"`
	ExpectedCloseDate string  `yaml:"expected_close_date"`
	Type              string  `yaml:"type"`
	Contact           string  `yaml:"contact"`
	Email             string  `yaml:"email"`
	Phone             string  `yaml:"phone"`
}

type contactRow struct {
	Name     string `yaml:"name"`
	Company  string `yaml:"company"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Type     string `yaml:"type"`
	Location string `yaml:"location"`
	Status   string `yaml:"status"`
	Favorite bool   `yaml:"favorite"`
}

type campaignRow struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Status    string `yaml:"status"`
	Sent      int    `yaml:"sent"`
	Opened    int    `yaml:"opened"`
	Clicked   int    `yaml:"clicked"`
	Converted int    `yaml:"converted"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

type ticketRow struct {
	Subject     string `yaml:"subject"`
	Customer    string `yaml:"customer"`
	Company     string `yaml:"company"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	Description string `yaml:"description"`
	AssignedTo  string `yaml:"assigned_to"`
}

// Fixture is the decoded demo data set.
type Fixture struct {
	Deals     []dealRow     `yaml:"deals"`
	Contacts  []contactRow  `yaml:"contacts"`
	Campaigns []campaignRow `yaml:"campaigns"`
	Tickets   []ticketRow   `yaml:"tickets"`
}

// Load reads a fixture file, or the built-in one when path is empty.
func Load(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		data = b
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func optionalDate(s string) (models.Date, error) {
	if s == "" {
		return models.Date{}, nil
	}
	return models.ParseDate(s)
}

// Apply inserts the fixture. Tables that already hold rows are skipped so
// seeding twice is harmless.
func Apply(ctx context.Context, set repositories.Set, f *Fixture) error {
	now := time.Now()
	all := models.Page{Limit: 1}

	if _, n, err := set.Deals.List(ctx, models.DealFilter{}, all); err != nil {
		return err
	} else if n == 0 {
		for _, r := range f.Deals {
			date, err := optionalDate(r.ExpectedCloseDate)
			if err != nil {
				return fmt.Errorf("deal %q: %w", r.Title, err)
			}
			d := &models.Deal{
				Title: r.Title, Customer: r.Customer, Value: r.Value,
				Stage: models.Stage(r.Stage), Probability: r.Probability, ExpectedCloseDate: date,
				Type: models.DealType(r.Type), Contact: r.Contact, Email: r.Email, Phone: r.Phone,
				CreatedAt: now, UpdatedAt: now,
			}
			if err := set.Deals.Create(ctx, d); err != nil {
				return err
			}
		}
	}

	if _, n, err := set.Contacts.List(ctx, models.ContactFilter{}, all); err != nil {
		return err
	} else if n == 0 {
		for _, r := range f.Contacts {
			c := &models.Contact{
				Name: r.Name, Company: r.Company, Email: r.Email, Phone: r.Phone,
				Type: models.ContactType(r.Type), Location: r.Location,
				Status: models.ContactStatus(r.Status), Favorite: r.Favorite,
				CreatedAt: now, UpdatedAt: now,
			}
			if err := set.Contacts.Create(ctx, c); err != nil {
				return err
			}
		}
	}

	if _, n, err := set.Campaigns.List(ctx, models.CampaignFilter{}, all); err != nil {
		return err
	} else if n == 0 {
		for _, r := range f.Campaigns {
			start, err := optionalDate(r.StartDate)
			if err != nil {
				return fmt.Errorf("campaign %q: %w", r.Name, err)
			}
			end, err := optionalDate(r.EndDate)
			if err != nil {
				return fmt.Errorf("campaign %q: %w", r.Name, err)
			}
			c := &models.Campaign{
				Name: r.Name, Type: models.CampaignType(r.Type), Status: models.CampaignStatus(r.Status),
				Sent: r.Sent, Opened: r.Opened, Clicked: r.Clicked, Converted: r.Converted,
				StartDate: start, EndDate: end, CreatedAt: now, UpdatedAt: now,
			}
			if err := set.Campaigns.Create(ctx, c); err != nil {
				return err
			}
		}
	}

	if _, n, err := set.Tickets.List(ctx, models.TicketFilter{}, all); err != nil {
		return err
	} else if n == 0 {
		for _, r := range f.Tickets {
			t := &models.SupportTicket{
				Subject: r.Subject, Customer: r.Customer, Company: r.Company,
				Status: models.TicketStatus(r.Status), Priority: models.TicketPriority(r.Priority),
				Description: r.Description, AssignedTo: r.AssignedTo,
				CreatedAt: now, UpdatedAt: now,
			}
			if err := set.Tickets.Create(ctx, t); err != nil {
				return err
			}
		}
	}
	return nil
}
