package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/JakeFAU/catalog-console/internal/listsync"
)

// ProgressPrinter renders import status lines. It satisfies importflow.View
// and is safe for use from channel goroutines.
type ProgressPrinter struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewProgressPrinter writes status to out and errors to errOut.
func NewProgressPrinter(out, errOut io.Writer) *ProgressPrinter {
	if errOut == nil {
		errOut = out
	}
	return &ProgressPrinter{out: out, err: errOut}
}

// ShowStatus prints a plain status line.
func (p *ProgressPrinter) ShowStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, text)
}

// ShowProgress prints the percentage and progress text.
func (p *ProgressPrinter) ShowProgress(pct int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[%3d%%] %s\n", pct, text)
}

// ShowError prints to the error stream.
func (p *ProgressPrinter) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.err, "error: %s\n", msg)
}

// ClearError is a no-op on a line-oriented terminal.
func (p *ProgressPrinter) ClearError() {}

// TableView renders list rows as an aligned table. It satisfies
// listsync.View.
type TableView[T any] struct {
	mu      sync.Mutex
	out     io.Writer
	columns []string
}

// NewTableView renders rows under columns.
func NewTableView[T any](out io.Writer, columns []string) *TableView[T] {
	return &TableView[T]{out: out, columns: columns}
}

// Render writes the header, one line per row, and the page footer.
func (v *TableView[T]) Render(_ string, rows []listsync.Row[T], page listsync.Page[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	tw := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(v.columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row.Cells, "\t"))
	}
	_ = tw.Flush()
	fmt.Fprintln(v.out, page.Info())
}

// PromptConfirmer asks yes/no questions on a terminal. It satisfies
// editor.Confirmer.
type PromptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewPromptConfirmer reads answers from in. With assumeYes every prompt is
// accepted without reading input.
func NewPromptConfirmer(in io.Reader, out io.Writer, assumeYes bool) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm prints prompt and accepts "y" or "yes".
func (c *PromptConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
