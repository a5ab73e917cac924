package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemmi/blocksite"
)

var renderOutline bool

var renderCmd = &cobra.Command{
	Use:   "render <page>",
	Short: "Render a page to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, site, err := openSite()
		if err != nil {
			return err
		}
		defer content.Close()

		p, err := site.Page(cmd.Context(), blocksite.PathOf(args[0]))
		if err != nil {
			return err
		}
		if renderOutline {
			fmt.Fprint(cmd.OutOrStdout(), p.Outline())
			return nil
		}
		tmpl, err := blocksite.LoadTemplates(content.FS)
		if err != nil {
			return err
		}
		return p.Render(cmd.OutOrStdout(), tmpl)
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderOutline, "outline", false, "print the page outline instead of HTML")
}
