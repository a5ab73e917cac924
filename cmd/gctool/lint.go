package main

import (
	"context"
	"fmt"
	"io"

	"github.com/agnivade/levenshtein"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/section"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report sections that will not render",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, site, err := openSite()
		if err != nil {
			return err
		}
		defer content.Close()

		problems, err := lint(cmd.Context(), content.Store, site.Registry())
		if err != nil {
			return err
		}
		printProblems(cmd.OutOrStdout(), problems)
		if len(problems) > 0 {
			return errors.Errorf("%d problems found", len(problems))
		}
		return nil
	},
}

type problem struct {
	Collection string
	ID         string
	Msg        string
}

func (p problem) String() string {
	return fmt.Sprintf("%s/%s: %s", p.Collection, p.ID, p.Msg)
}

func printProblems(w io.Writer, problems []problem) {
	for _, p := range problems {
		fmt.Fprintln(w, p)
	}
}

// maxSuggestDistance bounds the edit distance of a type name suggestion.
const maxSuggestDistance = 3

// suggest returns the registered type closest to typ, if any is close.
func suggest(reg *section.Registry, typ string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, name := range reg.Names() {
		if d := levenshtein.ComputeDistance(typ, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// lint checks every section of every page, drafts included.
func lint(ctx context.Context, store backend.Store, reg *section.Registry) ([]problem, error) {
	pages, err := store.Query(ctx, backend.CollectionPages, backend.Query{IncludeDrafts: true})
	if err != nil {
		return nil, err
	}

	var problems []problem
	for _, p := range pages {
		coll := backend.SectionsOf(p.ID)
		items, err := store.Query(ctx, coll, backend.Query{IncludeDrafts: true})
		if err != nil {
			return nil, err
		}
		env := section.Env{CurrentPath: blocksite.PathOf(p.ID)}
		for _, it := range items {
			report := func(format string, args ...any) {
				problems = append(problems, problem{Collection: coll, ID: it.ID, Msg: fmt.Sprintf(format, args...)})
			}

			var s section.Section
			if err := it.Decode(&s); err != nil {
				report("not a section record")
				continue
			}
			if _, ok := reg.Lookup(s.Type); !ok {
				if s.Type == "" {
					report("missing section type")
				} else if alt := suggest(reg, s.Type); alt != "" {
					report("unknown section type %q, did you mean %q?", s.Type, alt)
				} else {
					report("unknown section type %q", s.Type)
				}
				continue
			}
			if reg.Resolve(s).Payload == nil {
				report("%s payload is missing or malformed", s.Type)
				continue
			}
			if reg.Dispatch(env, s) == "" {
				report("%s renders nothing, check required fields", s.Type)
			}
		}
	}
	return problems, nil
}
