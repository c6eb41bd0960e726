package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/JakeFAU/catalog-console/internal/listsync"
)

// BrowseHelp lists the pager commands.
const BrowseHelp = "commands: n(ext)  p(rev)  g(o) PAGE  f(ilter) NAME [VALUE]  r(efresh)  q(uit)"

// BrowseOptions configures Browse.
type BrowseOptions struct {
	// Filters names the filters the operator may set. Empty disables filtering.
	Filters []string
	// Normalize rewrites a non-empty filter value before it is sent.
	Normalize func(name, value string) (string, error)
}

// Browse loads store's current query and then pages through it one command
// line at a time until "q" or the end of in. A failed command is reported
// and the session continues.
func Browse[T any](ctx context.Context, store *listsync.Store[T], in io.Reader, out io.Writer, opts BrowseOptions) error {
	if err := store.Refresh(ctx); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		quit, err := browseStep(ctx, store, fields, out, opts)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func browseStep[T any](ctx context.Context, store *listsync.Store[T], fields []string, out io.Writer, opts BrowseOptions) (bool, error) {
	switch fields[0] {
	case "n", "next":
		if !store.Page().HasNext() {
			fmt.Fprintln(out, "already on the last page")
			return false, nil
		}
		return false, store.NextPage(ctx)
	case "p", "prev":
		moved, err := store.PrevPage(ctx)
		if err == nil && !moved {
			fmt.Fprintln(out, "already on the first page")
		}
		return false, err
	case "g", "go", "page":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: g PAGE")
		}
		p, err := strconv.Atoi(fields[1])
		if err != nil || p < 1 {
			return false, fmt.Errorf("invalid page %q", fields[1])
		}
		return false, store.GoToPage(ctx, p)
	case "f", "filter":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: f NAME [VALUE]")
		}
		name := fields[1]
		if !slices.Contains(opts.Filters, name) {
			return false, fmt.Errorf("unknown filter %q", name)
		}
		value := strings.Join(fields[2:], " ")
		if value != "" && opts.Normalize != nil {
			var err error
			if value, err = opts.Normalize(name, value); err != nil {
				return false, err
			}
		}
		return false, store.SetFilter(ctx, name, value)
	case "r", "refresh":
		return false, store.Refresh(ctx)
	case "q", "quit", "exit":
		return true, nil
	case "?", "h", "help":
		fmt.Fprintln(out, BrowseHelp)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q (? for help)", fields[0])
	}
}
