// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package records models the extracted shipping-label records and their
server-paginated fetch.

The backend owns extraction entirely; this side only lists what it produced.
*/
package records

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"parsight/internal/listing"
	"parsight/internal/platform/transport"
)

// recordsPath is the backend collection endpoint.
const recordsPath = "/upload-records/"

// Record is one extracted shipping label row.
type Record struct {
	ID              int64     `json:"id"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	TrackingID      string    `json:"tracking_id"`
	Name            string    `json:"name"`
	City            string    `json:"city"`
	Pincode         string    `json:"pincode"`
	Country         string    `json:"country"`
	UploadStatus    string    `json:"upload_status"`
	ExtractStatus   string    `json:"extract_status"`
}

// Fields returns the row's display values for free-text matching.
func (r Record) Fields() []string {
	return []string{
		r.UploadTimestamp.Local().Format("2006-01-02 15:04:05"),
		r.TrackingID,
		r.Name,
		r.City,
		r.Pincode,
		r.Country,
		r.UploadStatus,
		r.ExtractStatus,
	}
}

// page is the backend's listing envelope.
type page struct {
	Items []Record `json:"items"`
	Total int      `json:"total"`
}

/*
NewFetcher builds the listing fetcher for extracted records.

Description: Issues GET /upload-records/ with page, size, and any filter
fields as query parameters. The search term is deliberately not sent; it is
client-side only.

Parameters:
  - client: *transport.Client

Returns:
  - listing.Fetcher[Record]: Fetcher wired through the request pipeline
*/
func NewFetcher(client *transport.Client) listing.Fetcher[Record] {
	return func(ctx context.Context, q listing.Query) (listing.Result[Record], error) {
		query := url.Values{
			"page": {strconv.Itoa(q.Page)},
			"size": {strconv.Itoa(q.PageSize)},
		}
		for field, value := range q.Filters {
			query.Set(field, value)
		}

		var out page
		if err := client.Get(ctx, recordsPath, query, &out); err != nil {
			return listing.Result[Record]{}, err
		}
		return listing.Result[Record]{Items: out.Items, Total: out.Total}, nil
	}
}
