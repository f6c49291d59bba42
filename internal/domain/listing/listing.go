package listing

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/ocrdesk/internal/domain/document"
)

// DefaultPageSize is the initial page size of the collection view.
const DefaultPageSize = 10

// PageSizes are the allowed page sizes.
var PageSizes = []int{5, 10, 25}

// ValidPageSize reports whether n is an allowed page size.
func ValidPageSize(n int) bool { return slices.Contains(PageSizes, n) }

// Query identifies one page of the listing. Page is zero-based.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// NewQuery validates a query.
func NewQuery(page, pageSize int, search string) (Query, error) {
	if page < 0 {
		return Query{}, fmt.Errorf("page must be >= 0, got %d", page)
	}
	if !ValidPageSize(pageSize) {
		return Query{}, fmt.Errorf("page size must be one of %v, got %d", PageSizes, pageSize)
	}
	return Query{Page: page, PageSize: pageSize, Search: search}, nil
}

// WirePage returns the 1-based page number sent to the server.
func (q Query) WirePage() int { return q.Page + 1 }

// WithPage returns a copy with page set.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// WithPageSize returns a copy with the page size set and page reset to 0.
func (q Query) WithPageSize(size int) Query {
	q.PageSize = size
	q.Page = 0
	return q
}

// WithSearch returns a copy with the search text set and page reset to 0.
func (q Query) WithSearch(search string) Query {
	q.Search = search
	q.Page = 0
	return q
}

// Page is one server page of documents.
type Page struct {
	Items []document.Document
	Total int
}

// Kind is the display state of the collection view.
type Kind int

// Kind values.
const (
	KindIdle Kind = iota
	KindLoading
	KindLoaded
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindLoading:
		return "loading"
	case KindLoaded:
		return "loaded"
	case KindEmpty:
		return "empty"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Snapshot is an immutable copy of the collection view state.
type Snapshot struct {
	Query   Query
	Total   int
	Items   []document.Document
	Loading bool
	Kind    Kind
}

// EmptyMessage returns the placeholder shown for an empty listing.
func (s Snapshot) EmptyMessage() string {
	if s.Query.Search != "" {
		return "No documents found matching your search."
	}
	return "No documents uploaded yet."
}

// PageCount returns the number of pages for Total at the current page size.
func (s Snapshot) PageCount() int {
	if s.Query.PageSize <= 0 || s.Total <= 0 {
		return 0
	}
	return (s.Total + s.Query.PageSize - 1) / s.Query.PageSize
}
