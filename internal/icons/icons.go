// Package icons resolves symbolic icon names to renderable assets once,
// at the call site, instead of passing icon objects between components.
package icons

import "apexcrm/internal/models"

// Asset is a renderable icon reference understood by the front end.
type Asset struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

var registry = map[string]Asset{
	"building":      {Name: "building", Glyph: "Building"},
	"user":          {Name: "user", Glyph: "User"},
	"dollar":        {Name: "dollar", Glyph: "DollarSign"},
	"calendar":      {Name: "calendar", Glyph: "Calendar"},
	"trash":         {Name: "trash", Glyph: "Trash2"},
	"plus":          {Name: "plus", Glyph: "Plus"},
	"check-circle":  {Name: "check-circle", Glyph: "CheckCircle2"},
	"alert-circle":  {Name: "alert-circle", Glyph: "AlertCircle"},
	"info":          {Name: "info", Glyph: "Info"},
	"users":         {Name: "users", Glyph: "Users"},
	"briefcase":     {Name: "briefcase", Glyph: "Briefcase"},
	"mail":          {Name: "mail", Glyph: "Mail"},
	"life-buoy":     {Name: "life-buoy", Glyph: "LifeBuoy"},
	"trending-up":   {Name: "trending-up", Glyph: "TrendingUp"},
	"trending-down": {Name: "trending-down", Glyph: "TrendingDown"},
}

var fallback = Asset{Name: "help", Glyph: "HelpCircle"}

// Resolve returns the asset registered under name, or a generic glyph.
func Resolve(name string) Asset {
	if a, ok := registry[name]; ok {
		return a
	}
	return fallback
}

// ForDealType picks the card icon for a deal's counterparty type.
func ForDealType(t models.DealType) Asset {
	if t == models.DealTypeIndividual {
		return Resolve("user")
	}
	return Resolve("building")
}

// ForLevel picks the toast icon for a notification level.
func ForLevel(level string) Asset {
	switch level {
	case "success":
		return Resolve("check-circle")
	case "error":
		return Resolve("alert-circle")
	default:
		return Resolve("info")
	}
}
