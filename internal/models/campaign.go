package models

import "time"

type CampaignType string

const (
	CampaignEmail  CampaignType = "email"
	CampaignSocial CampaignType = "social"
	CampaignEvent  CampaignType = "event"
	CampaignAds    CampaignType = "ads"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
)

type Campaign struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      CampaignType   `json:"type"`
	Status    CampaignStatus `json:"status"`
	Sent      int            `json:"sent"`
	Opened    int            `json:"opened"`
	Clicked   int            `json:"clicked"`
	Converted int            `json:"converted"`
	StartDate Date           `json:"start_date"`
	EndDate   Date           `json:"end_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CampaignRates are percentages of Sent; all zero when nothing was sent.
type CampaignRates struct {
	OpenRate       float64 `json:"open_rate"`
	ClickRate      float64 `json:"click_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

func (c Campaign) Rates() CampaignRates {
	if c.Sent <= 0 {
		return CampaignRates{}
	}
	sent := float64(c.Sent)
	return CampaignRates{
		OpenRate:       float64(c.Opened) * 100 / sent,
		ClickRate:      float64(c.Clicked) * 100 / sent,
		ConversionRate: float64(c.Converted) * 100 / sent,
	}
}

type CampaignFilter struct {
	Search string
	Type   CampaignType
	Status CampaignStatus
}
