// Copyright (c) 2026 Parsight. All rights reserved.

package records_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/listing"
	"parsight/internal/platform/credstore"
	"parsight/internal/platform/transport"
	"parsight/internal/records"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type noopNav struct{}

func (noopNav) ForceNavigate(string) {}

/*
TestNewFetcher_QueryEncoding sends page, size, and filters, never the search
term.
*/
func TestNewFetcher_QueryEncoding(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": 1, "upload_timestamp": "2026-08-30T09:15:00Z", "tracking_id": "1Z999AA1",
				 "name": "Aarav", "city": "Mumbai", "pincode": "400001", "country": "India",
				 "upload_status": "success", "extract_status": "success"}
			],
			"total": 15
		}`))
	}))
	defer server.Close()

	client, err := transport.New(server.URL, credstore.NewMemStore(), noopNav{}, testLog)
	require.NoError(t, err)

	fetch := records.NewFetcher(client)
	res, err := fetch(context.Background(), listing.Query{
		Page:     2,
		PageSize: 10,
		Filters:  map[string]string{"city": "Mumbai"},
		Search:   "should-not-be-sent",
	})
	require.NoError(t, err)

	// 1. Pagination and filters travel as query parameters
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "10", gotQuery.Get("size"))
	assert.Equal(t, "Mumbai", gotQuery.Get("city"))

	// 2. The client-side search term stays client-side
	assert.False(t, gotQuery.Has("search"))
	assert.False(t, gotQuery.Has("should-not-be-sent"))

	// 3. Envelope decoded into items plus server total
	require.Len(t, res.Items, 1)
	assert.Equal(t, "1Z999AA1", res.Items[0].TrackingID)
	assert.Equal(t, 15, res.Total)
}

/*
TestRecord_Fields flattens every displayed column for search matching.
*/
func TestRecord_Fields(t *testing.T) {
	rec := records.Record{
		TrackingID:    "1Z999AA1",
		Name:          "Aarav",
		City:          "Mumbai",
		Pincode:       "400001",
		Country:       "India",
		UploadStatus:  "success",
		ExtractStatus: "failed",
	}

	fields := rec.Fields()
	assert.Contains(t, fields, "1Z999AA1")
	assert.Contains(t, fields, "Mumbai")
	assert.Contains(t, fields, "failed")
	assert.Len(t, fields, 8)
}
