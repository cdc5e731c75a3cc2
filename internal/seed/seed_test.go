package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apexcrm/internal/models"
	"apexcrm/internal/repositories"
)

func TestLoad_BuiltInFixture(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)
	assert.Len(t, f.Deals, 5)
	assert.Len(t, f.Contacts, 5)
	assert.Len(t, f.Campaigns, 4)
	assert.Len(t, f.Tickets, 4)
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	set := repositories.NewMemorySet()
	f, err := Load("")
	require.NoError(t, err)

	require.NoError(t, Apply(ctx, set, f))
	require.NoError(t, Apply(ctx, set, f))

	deals, total, err := set.Deals.List(ctx, models.DealFilter{}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, "Enterprise Software License", deals[0].Title)
	assert.Equal(t, "2023-12-15", deals[0].ExpectedCloseDate.String())

	_, total, err = set.Tickets.List(ctx, models.TicketFilter{Priority: models.PriorityCritical}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	campaigns, _, err := set.Campaigns.List(ctx, models.CampaignFilter{Status: models.CampaignDraft}, models.Page{})
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.True(t, campaigns[0].StartDate.IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
