package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/listsync"
)

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	p := NewProgressPrinter(&out, &errOut)
	p.ClearError()
	p.ShowStatus("Queued")
	p.ShowProgress(25, "importing - 25% (5/20)")
	p.ShowError("bad row 4")

	require.Equal(t, "Queued\n[ 25%] importing - 25% (5/20)\n", out.String())
	require.Equal(t, "error: bad row 4\n", errOut.String())
}

func TestTableViewRendersRowsAndFooter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	v := NewTableView[catalog.Product](&out, listsync.ProductColumns)
	p := catalog.Product{ID: 1, SKU: "A-1", Name: "Anvil", Active: true}
	v.Render("products", []listsync.Row[catalog.Product]{{Item: p, Cells: listsync.FormatProduct(p)}},
		listsync.Page[catalog.Product]{Page: 1, PageSize: 10, Total: 1})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "ID"))
	require.Contains(t, lines[1], "Anvil")
	require.Contains(t, lines[1], "Yes")
	require.Equal(t, "Page 1 • 1 total", lines[2])
}

func TestPromptConfirmer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := NewPromptConfirmer(strings.NewReader("y\nno\n"), &out, false)
	require.True(t, c.Confirm("Delete this product?"))
	require.False(t, c.Confirm("Delete this product?"))
	require.False(t, c.Confirm("Delete this product?"))
	require.Contains(t, out.String(), "Delete this product? [y/N]: ")

	require.True(t, NewPromptConfirmer(strings.NewReader(""), &out, true).Confirm("anything"))
}
