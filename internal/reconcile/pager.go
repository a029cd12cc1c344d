package reconcile

import "maps"

// Pager holds the search, filter and page state of a list view. Changing
// the search term or a filter returns to the first page.
type Pager struct {
	search   string
	filters  map[string]string
	page     int
	pageSize int
}

// NewPager returns a pager on page 1. A pageSize of zero or less shows
// everything on one page.
func NewPager(pageSize int) *Pager {
	return &Pager{filters: make(map[string]string), page: 1, pageSize: pageSize}
}

// Search returns the current search term.
func (p *Pager) Search() string { return p.search }

// Filter returns the current value of a filter.
func (p *Pager) Filter(key string) string { return p.filters[key] }

// Page returns the requested page.
func (p *Pager) Page() int { return p.page }

// SetSearch changes the search term.
func (p *Pager) SetSearch(s string) {
	if s == p.search {
		return
	}
	p.search = s
	p.page = 1
}

// SetFilter sets a filter; an empty value clears it.
func (p *Pager) SetFilter(key, value string) {
	if p.filters[key] == value {
		return
	}
	if value == "" {
		delete(p.filters, key)
	} else {
		p.filters[key] = value
	}
	p.page = 1
}

// ClearFilter removes a filter.
func (p *Pager) ClearFilter(key string) {
	p.SetFilter(key, "")
}

// ClearAll removes the search term and every filter.
func (p *Pager) ClearAll() {
	p.search = ""
	clear(p.filters)
	p.page = 1
}

// GoTo requests page n. The page is clamped when the query is applied.
func (p *Pager) GoTo(n int) {
	p.page = max(n, 1)
}

// Next advances one page, stopping at totalPages.
func (p *Pager) Next(totalPages int) {
	if p.page < totalPages {
		p.page++
	}
}

// Prev goes back one page, stopping at 1.
func (p *Pager) Prev() {
	if p.page > 1 {
		p.page--
	}
}

// Query returns the current state as a Query.
func (p *Pager) Query() Query {
	return Query{
		Search:   p.search,
		Filters:  maps.Clone(p.filters),
		Page:     p.page,
		PageSize: p.pageSize,
	}
}
