// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"parsight/internal/listing"
	"parsight/pkg/pagination"
	"parsight/pkg/textmatch"
)

const (
	ansiHighlight = "\x1b[7m"
	ansiReset     = "\x1b[0m"
)

// highlight wraps every case-insensitive occurrence of term in reverse
// video. An empty term returns the value unchanged.
func highlight(value, term string) string {
	spans := textmatch.Spans(value, term)
	if len(spans) == 0 {
		return value
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(value[last:span.Start])
		b.WriteString(ansiHighlight)
		b.WriteString(value[span.Start:span.End])
		b.WriteString(ansiReset)
		last = span.End
	}
	b.WriteString(value[last:])
	return b.String()
}

// renderTable writes rows as an aligned table, highlighting the search term
// in every cell.
func renderTable[T listing.Row](w io.Writer, headers []string, rows []T, search string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		fields := row.Fields()
		cells := make([]string, len(fields))
		for i, field := range fields {
			cells[i] = highlight(field, search)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

// renderPagination writes the page strip, e.g. "1 … 4 [5] 6 … 12".
func renderPagination(w io.Writer, meta pagination.Meta) {
	if meta.TotalPages <= 1 {
		fmt.Fprintf(w, "%d item(s)\n", meta.Total)
		return
	}

	parts := make([]string, 0, 9)
	for _, item := range pagination.Window(meta.Page, meta.TotalPages) {
		switch {
		case item.Gap:
			parts = append(parts, "…")
		case item.Number == meta.Page:
			parts = append(parts, "["+strconv.Itoa(item.Number)+"]")
		default:
			parts = append(parts, strconv.Itoa(item.Number))
		}
	}

	fmt.Fprintf(w, "Page %d of %d (%d items)   %s\n",
		meta.Page, meta.TotalPages, meta.Total, strings.Join(parts, " "))
}

// renderListing is the shared view body: table, then the pagination strip
// reflecting the server total, then any search narrowing note.
func renderListing[T listing.Row](w io.Writer, headers []string, ctl *listing.Controller[T]) {
	query := ctl.Query()
	visible := ctl.Visible()

	if len(visible) == 0 {
		fmt.Fprintln(w, "No matching records.")
	} else {
		renderTable(w, headers, visible, query.Search)
	}

	renderPagination(w, ctl.Meta())
	if query.Search != "" {
		fmt.Fprintf(w, "Search %q matches %d of %d rows on this page.\n",
			query.Search, len(visible), len(ctl.Items()))
	}
}
