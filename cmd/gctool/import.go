package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/backend/sqlstore"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the records of the content directory into the SQLite database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Content.DB == "" {
			return errors.New("no database given, use --db or content.db")
		}
		dst, err := sqlstore.Open(cfg.Content.DB)
		if err != nil {
			return err
		}
		defer dst.Close()

		src := cfg.Content
		src.DB = ""
		content, err := src.Open()
		if err != nil {
			return err
		}
		defer content.Close()

		n, err := importRecords(cmd.Context(), content.Store, dst, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s\n", n, cfg.Content.DB)
		return nil
	},
}

// importRecords copies pages, their sections and the globals from src to
// dst, drafts included. Existing records in dst are replaced.
func importRecords(ctx context.Context, src backend.Store, dst *sqlstore.Store, out io.Writer) (int, error) {
	pages, err := src.Query(ctx, backend.CollectionPages, backend.Query{IncludeDrafts: true})
	if err != nil {
		return 0, err
	}
	collections := []string{backend.CollectionPages, backend.CollectionGlobals}
	for _, p := range pages {
		collections = append(collections, backend.SectionsOf(p.ID))
	}

	n := 0
	for _, coll := range collections {
		items, err := src.Query(ctx, coll, backend.Query{IncludeDrafts: true})
		if err != nil {
			return n, err
		}
		for _, it := range items {
			if _, err := dst.Put(ctx, coll, it); err != nil {
				return n, err
			}
			n++
		}
		if len(items) > 0 {
			fmt.Fprintf(out, "%s: %d\n", coll, len(items))
		}
	}
	return n, nil
}
