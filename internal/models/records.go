package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// Page is a limit/offset window over a listing.
type Page struct {
	Limit  int
	Offset int
}

// NewPage converts a 1-based page number and size into a Page.
func NewPage(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Limit: size, Offset: (page - 1) * size}
}

// ListResult is one page of records plus the total number matching the filter.
type ListResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// EmptyResult is what failed fetches degrade to.
func EmptyResult[T any]() *ListResult[T] {
	return &ListResult[T]{Data: []T{}, Total: 0}
}
