package pipeline

import (
	"strings"

	"apexcrm/internal/models"
)

// Matches reports whether query is a case-insensitive substring of the
// deal's title, customer or contact. An empty query matches everything.
func Matches(d models.Deal, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Customer), q) ||
		strings.Contains(strings.ToLower(d.Contact), q)
}

// Filter keeps the deals matching query, preserving order.
func Filter(deals []models.Deal, query string) []models.Deal {
	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if Matches(d, query) {
			out = append(out, d)
		}
	}
	return out
}
