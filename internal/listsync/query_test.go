package listsync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryValuesOmitsEmptyFilters(t *testing.T) {
	t.Parallel()

	q := NewQuery(10).WithFilters(map[string]string{
		FilterSKU:         "A-1",
		FilterName:        "",
		FilterDescription: "  ",
		FilterActive:      "false",
	})
	v := q.Values()
	require.Equal(t, "1", v.Get("page"))
	require.Equal(t, "10", v.Get("page_size"))
	require.Equal(t, "A-1", v.Get("sku"))
	require.Equal(t, "false", v.Get("active"))
	require.False(t, v.Has("name"))
	require.False(t, v.Has("description"))
	require.Equal(t, []string{FilterActive, FilterSKU}, q.ActiveFilters())
}

func TestQueryFilterChangesResetPage(t *testing.T) {
	t.Parallel()

	q := NewQuery(10).WithPage(4)
	require.Equal(t, 4, q.Page)
	require.Equal(t, 1, q.WithFilter(FilterName, "anvil").Page)
	require.Equal(t, 1, q.WithFilters(nil).Page)
}

func TestQueryWithPageClampsToOne(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, NewQuery(10).WithPage(0).Page)
	require.Equal(t, 1, NewQuery(10).WithPage(-3).Page)
}

func TestQueryCloneIsIndependent(t *testing.T) {
	t.Parallel()

	q := NewQuery(10).WithFilter(FilterSKU, "A")
	c := q.Clone()
	c.Filters[FilterSKU] = "B"
	require.Equal(t, "A", q.Filters[FilterSKU])
}

func TestUnpagedQueryOmitsPageSize(t *testing.T) {
	t.Parallel()

	require.False(t, NewQuery(0).Values().Has("page_size"))
}
