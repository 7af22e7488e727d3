// Copyright (c) 2026 Parsight. All rights reserved.

// Package pagination provides shared types and helpers for paged listings.
//
// # Overview
//
// It standardizes how page-based navigation state is carried between the
// listing controller and the rendering layer, and how the visible page-number
// window (with ellipsis gaps) is computed for wide result sets.
package pagination

// PageSizes lists the page sizes a listing may be viewed with.
var PageSizes = []int{5, 10, 20, 50}

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 10
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// ValidSize reports whether size is one of the allowed [PageSizes].
func ValidSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Meta is the pagination metadata a listing exposes to its renderer.
//
// Total always reflects the server-side count, never the size of any
// client-side filtered subset.
type Meta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a fetched page.
//
// It automatically calculates TotalPages based on the total count and size.
func NewMeta(page, size, total int) Meta {
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}

	return Meta{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// # Page Window

// PageItem is one entry of a rendered page-number strip.
//
// When Gap is true the entry stands for an elided run of pages and Number
// is zero.
type PageItem struct {
	Number int
	Gap    bool
}

// Window computes the page-number strip for the given current page.
//
// # Shape
//
// Up to five pages are listed in full. Beyond that the strip keeps the first
// and last page always visible, shows the current page with one neighbour on
// each side, and elides the rest with gaps:
//
//	1 .. 4 5 6 .. 12
func Window(current, totalPages int) []PageItem {
	if totalPages <= 0 {
		return nil
	}

	if totalPages <= 5 {
		items := make([]PageItem, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			items = append(items, PageItem{Number: i})
		}
		return items
	}

	items := []PageItem{{Number: 1}}

	if current > 3 {
		items = append(items, PageItem{Gap: true})
	}

	start := max(2, current-1)
	end := min(totalPages-1, current+1)
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Number: i})
	}

	if current < totalPages-2 {
		items = append(items, PageItem{Gap: true})
	}

	return append(items, PageItem{Number: totalPages})
}
