// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"github.com/spf13/cobra"

	"parsight/internal/gate"
	"parsight/internal/listing"
	"parsight/internal/records"
)

// recordHeaders are the label-book table columns, in row field order.
var recordHeaders = []string{
	"UPLOADED", "TRACKING", "NAME", "CITY", "PINCODE", "COUNTRY", "UPLOAD", "EXTRACT",
}

func newRecordsCommand(app *App) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Browse extracted package-label records",
	}

	var (
		page    int
		size    int
		filters []string
		search  string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List label records",
		Long: `List label records. Filters narrow the listing on the server; the search
term narrows the fetched page locally and never changes the server total.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enter(gate.UploadPath); err != nil {
				return err
			}

			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}

			if size == 0 {
				size = app.pageSizeDefault()
			}
			opts := []listing.Option{
				listing.WithPage(page),
				listing.WithPageSize(size),
				listing.WithSearch(search),
			}
			for field, value := range parsed {
				opts = append(opts, listing.WithFilter(field, value))
			}

			ctl := listing.NewController(records.NewFetcher(app.Client), app.Log, opts...)
			if err := ctl.Load(cmd.Context()); err != nil {
				return err
			}

			renderListing(app.Out, recordHeaders, ctl)
			return nil
		},
	}

	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&size, "size", 0, "page size (5, 10, 20, or 50; defaults to the configured size)")
	list.Flags().StringArrayVar(&filters, "filter", nil, "column filter as field=value (repeatable)")
	list.Flags().StringVar(&search, "search", "", "client-side search term")

	recordsCmd.AddCommand(list)
	return recordsCmd
}

// pageSizeDefault reads the configured page size.
func (a *App) pageSizeDefault() int {
	if a.Config != nil && a.Config.PageSize > 0 {
		return a.Config.PageSize
	}
	return 10
}
