// Copyright (c) 2026 Parsight. All rights reserved.

package stubapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"parsight/internal/platform/sec"
	"parsight/pkg/pagination"
)

// labelRecord is one extracted package label row.
type labelRecord struct {
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

// field returns the named filterable column, or false for unknown names.
func (rec labelRecord) field(name string) (string, bool) {
	switch name {
	case "tracking_id":
		return rec.TrackingID, true
	case "name":
		return rec.Name, true
	case "city":
		return rec.City, true
	case "pincode":
		return rec.Pincode, true
	case "country":
		return rec.Country, true
	case "upload_status":
		return rec.UploadStatus, true
	case "extract_status":
		return rec.ExtractStatus, true
	default:
		return "", false
	}
}

// recordsEnvelope mirrors the backend's paginated listing response.
type recordsEnvelope struct {
	Items []labelRecord `json:"items"`
	Total int           `json:"total"`
}

/*
handleListRecords serves the paginated, filtered label listing.

Description: page and size travel as their own query parameters; every other
parameter is treated as a column filter and matched case-insensitively.
Unknown filter columns match nothing.
*/
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = pagination.DefaultPage
	}
	size, _ := strconv.Atoi(query.Get("size"))
	if !pagination.ValidSize(size) {
		size = pagination.DefaultPageSize
	}

	s.mu.Lock()
	all := make([]labelRecord, len(s.records))
	copy(all, s.records)
	s.mu.Unlock()

	filtered := all[:0:0]
	for _, rec := range all {
		if matchesQuery(rec, query) {
			filtered = append(filtered, rec)
		}
	}

	start := (page - 1) * size
	if start > len(filtered) {
		start = len(filtered)
	}
	end := min(start+size, len(filtered))

	writeJSON(w, http.StatusOK, recordsEnvelope{
		Items: filtered[start:end],
		Total: len(filtered),
	})
}

func matchesQuery(rec labelRecord, query map[string][]string) bool {
	for name, values := range query {
		if name == "page" || name == "size" || len(values) == 0 {
			continue
		}
		have, ok := rec.field(name)
		if !ok || !strings.EqualFold(have, values[0]) {
			return false
		}
	}
	return true
}

// # Seed Data

// seed loads the demo accounts and a label book large enough to exercise
// pagination windows.
func (s *Server) seed() {
	s.accounts = map[int64]*account{
		1: {ID: 1, Username: "admin", Email: "admin@parsight.dev", Role: sec.RoleAdmin, Status: sec.StatusApproved, Password: "admin-secret"},
		2: {ID: 2, Username: "operator", Email: "operator@parsight.dev", Role: sec.RoleUser, Status: sec.StatusApproved, Password: "operator-secret"},
		3: {ID: 3, Username: "newjoiner", Email: "newjoiner@parsight.dev", Role: sec.RoleUser, Status: sec.StatusPending, Password: "joiner-secret"},
	}
	s.nextID = 4

	names := []string{"Aarav", "Diya", "Kabir", "Meera", "Rohan", "Sanya", "Vikram", "Zara"}
	cities := []struct {
		city, pincode, country string
	}{
		{"Mumbai", "400001", "India"},
		{"Delhi", "110001", "India"},
		{"Bengaluru", "560001", "India"},
		{"Chennai", "600001", "India"},
		{"Singapore", "018989", "Singapore"},
	}

	base := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		place := cities[i%len(cities)]
		extract := "success"
		if i%7 == 0 {
			extract = "failed"
		}
		s.records = append(s.records, labelRecord{
			ID:              int64(i + 1),
			UploadTimestamp: base.Add(time.Duration(i) * time.Hour),
			TrackingID:      "PRS" + strconv.Itoa(100000+i),
			Name:            names[i%len(names)],
			City:            place.city,
			Pincode:         place.pincode,
			Country:         place.country,
			UploadStatus:    "success",
			ExtractStatus:   extract,
		})
	}
}
