package services

import "apexcrm/internal/models"

// Допустимые переходы статусов тикета.
var TicketTransitions = map[models.TicketStatus]map[models.TicketStatus]bool{
	models.TicketOpen:       {models.TicketInProgress: true, models.TicketResolved: true, models.TicketClosed: true},
	models.TicketInProgress: {models.TicketOpen: true, models.TicketResolved: true, models.TicketClosed: true},
	models.TicketResolved:   {models.TicketClosed: true, models.TicketOpen: true}, // reopen
	models.TicketClosed:     {models.TicketOpen: true},
}

var CampaignTransitions = map[models.CampaignStatus]map[models.CampaignStatus]bool{
	models.CampaignDraft:     {models.CampaignScheduled: true, models.CampaignActive: true},
	models.CampaignScheduled: {models.CampaignDraft: true, models.CampaignActive: true},
	models.CampaignActive:    {models.CampaignCompleted: true},
	models.CampaignCompleted: {},
}

func canTransition[S comparable](current, to S, table map[S]map[S]bool) bool {
	var zero S
	if current == zero || current == to {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
