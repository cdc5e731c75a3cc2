package pipeline

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"apexcrm/internal/models"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidEmail applies the loose text@text.text shape check.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool { return len(e) == 0 }

// Draft holds the raw values typed into the new-deal form.
type Draft struct {
	Title             string          `json:"title"`
	Customer          string          `json:"customer"`
	Value             string          `json:"value"`
	Stage             models.Stage    `json:"stage"`
	Probability       int             `json:"probability"`
	ExpectedCloseDate string          `json:"expected_close_date"`
	Type              models.DealType `json:"type"`
	Contact           string          `json:"contact"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
}

// NewDraft returns the form defaults for a given day.
func NewDraft(today time.Time) Draft {
	return Draft{
		Stage:             models.StageLead,
		Probability:       20,
		ExpectedCloseDate: today.Format(models.DateLayout),
		Type:              models.DealTypeCompany,
	}
}

// Set assigns one field by its json name. Unknown fields are ignored.
func (d *Draft) Set(field, value string) {
	switch field {
	case "title":
		d.Title = value
	case "customer":
		d.Customer = value
	case "value":
		d.Value = value
	case "stage":
		d.Stage = models.Stage(value)
	case "probability":
		if p, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			d.Probability = p
		}
	case "expected_close_date":
		d.ExpectedCloseDate = value
	case "type":
		d.Type = models.DealType(value)
	case "contact":
		d.Contact = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	}
}

// Validate collects every violation at once.
func (d Draft) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Deal title is required"
	}
	if strings.TrimSpace(d.Customer) == "" {
		errs["customer"] = "Customer name is required"
	}
	if strings.TrimSpace(d.Value) == "" {
		errs["value"] = "Deal value is required"
	} else if v, err := parseValue(d.Value); err != nil {
		errs["value"] = "Deal value must be a number"
	} else if v < 0 {
		errs["value"] = "Deal value cannot be negative"
	}
	if strings.TrimSpace(d.Contact) == "" {
		errs["contact"] = "Contact name is required"
	}
	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = "Email is required"
	} else if !ValidEmail(d.Email) {
		errs["email"] = "Email is invalid"
	}
	return errs
}

// Deal coerces a validated draft into a record ready to create.
func (d Draft) Deal() (models.Deal, error) {
	value, err := parseValue(d.Value)
	if err != nil {
		return models.Deal{}, err
	}
	deal := models.Deal{
		Title:       strings.TrimSpace(d.Title),
		Customer:    strings.TrimSpace(d.Customer),
		Value:       value,
		Stage:       d.Stage,
		Probability: d.Probability,
		Type:        d.Type,
		Contact:     strings.TrimSpace(d.Contact),
		Email:       strings.TrimSpace(d.Email),
		Phone:       strings.TrimSpace(d.Phone),
	}
	if deal.Stage == "" {
		deal.Stage = models.StageLead
	}
	if deal.Type == "" {
		deal.Type = models.DealTypeCompany
	}
	if d.ExpectedCloseDate != "" {
		date, err := models.ParseDate(d.ExpectedCloseDate)
		if err != nil {
			return models.Deal{}, err
		}
		deal.ExpectedCloseDate = date
	}
	return deal, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
