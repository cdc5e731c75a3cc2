package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apexcrm/internal/models"
)

var today = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func validDraft() Draft {
	d := NewDraft(today)
	d.Title = "Cloud Migration"
	d.Customer = "Northwind"
	d.Value = "15000"
	d.Contact = "Ann Lee"
	d.Email = "ann@northwind.com"
	d.Phone = "(555) 111-2222"
	return d
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft(today)
	assert.Equal(t, models.StageLead, d.Stage)
	assert.Equal(t, 20, d.Probability)
	assert.Equal(t, models.DealTypeCompany, d.Type)
	assert.Equal(t, "2026-10-17", d.ExpectedCloseDate)
}

func TestDraftValidateCollectsAll(t *testing.T) {
	d := NewDraft(today)
	d.Value = "abc"
	d.Email = "not-an-email"

	errs := d.Validate()
	assert.Equal(t, FieldErrors{
		"title":    "Deal title is required",
		"customer": "Customer name is required",
		"value":    "Deal value must be a number",
		"contact":  "Contact name is required",
		"email":    "Email is invalid",
	}, errs)
}

func TestDraftValidateValue(t *testing.T) {
	for _, v := range []string{"", "   "} {
		d := validDraft()
		d.Value = v
		assert.Equal(t, "Deal value is required", d.Validate()["value"])
	}
	for _, v := range []string{"abc", "NaN", "Inf", "12,5"} {
		d := validDraft()
		d.Value = v
		assert.Equal(t, "Deal value must be a number", d.Validate()["value"], v)
	}
	d := validDraft()
	d.Value = "-1"
	assert.Equal(t, "Deal value cannot be negative", d.Validate()["value"])
}

func TestDraftBlankTitleAfterTrim(t *testing.T) {
	d := validDraft()
	d.Title = "   "
	assert.Contains(t, d.Validate(), "title")
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.c"))
	assert.True(t, ValidEmail("john@acmecorp.com"))
	assert.False(t, ValidEmail("john@acmecorp"))
	assert.False(t, ValidEmail("@."))
	assert.False(t, ValidEmail("plain"))
}

func TestDraftDealCoercion(t *testing.T) {
	d := validDraft()
	d.Value = " 1500.50 "
	d.Probability = 35
	d.ExpectedCloseDate = "2026-12-01"

	require.Empty(t, d.Validate())
	deal, err := d.Deal()
	require.NoError(t, err)
	assert.Equal(t, 1500.5, deal.Value)
	assert.Equal(t, 35, deal.Probability)
	assert.Equal(t, "2026-12-01", deal.ExpectedCloseDate.String())
	assert.Equal(t, models.StageLead, deal.Stage)
}

func TestDraftSet(t *testing.T) {
	d := NewDraft(today)
	d.Set("title", "X")
	d.Set("probability", "55")
	d.Set("probability", "oops")
	d.Set("unknown", "ignored")
	assert.Equal(t, "X", d.Title)
	assert.Equal(t, 55, d.Probability)
}
