package listsync

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query is the pagination and filter state of one list view. Page is
// 1-based; a filter with an empty value is inactive.
type Query struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

// NewQuery returns the first page with no filters.
func NewQuery(pageSize int) Query {
	return Query{Page: 1, PageSize: pageSize, Filters: map[string]string{}}
}

// Clone returns a deep copy of q.
func (q Query) Clone() Query {
	out := q
	out.Filters = maps.Clone(q.Filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	return out
}

// WithPage moves to page p, clamped to 1.
func (q Query) WithPage(p int) Query {
	out := q.Clone()
	out.Page = max(p, 1)
	return out
}

// WithFilter sets one filter and resets to page 1.
func (q Query) WithFilter(name, value string) Query {
	out := q.Clone()
	out.Filters[name] = value
	out.Page = 1
	return out
}

// WithFilters replaces every filter and resets to page 1.
func (q Query) WithFilters(filters map[string]string) Query {
	out := q.Clone()
	out.Filters = maps.Clone(filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	out.Page = 1
	return out
}

// ActiveFilters returns the names of non-empty filters in sorted order.
func (q Query) ActiveFilters() []string {
	names := make([]string, 0, len(q.Filters))
	for name, value := range q.Filters {
		if strings.TrimSpace(value) != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Values encodes q as request query parameters. Inactive filters are
// omitted; page_size is omitted for unpaged views.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	for _, name := range q.ActiveFilters() {
		v.Set(name, q.Filters[name])
	}
	return v
}
