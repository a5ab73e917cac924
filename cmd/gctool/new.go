package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/section"
)

var newOpts struct {
	author   string
	slug     string
	order    int
	draft    bool
	simulate bool
	edit     bool
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a page record and its sections directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		files, err := scaffold(cfg.Content.Dir, args[0], time.Now(), !newOpts.simulate, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if newOpts.edit && !newOpts.simulate {
			return edit(files...)
		}
		return nil
	},
}

func init() {
	f := newCmd.Flags()
	f.StringVar(&newOpts.author, "author", "Webmaster", "Set the author name")
	f.StringVar(&newOpts.slug, "slug", "", "Set the page slug (default derived from the title)")
	f.IntVar(&newOpts.order, "order", 0, "Set the page order")
	f.BoolVar(&newOpts.draft, "draft", false, "Create the page as a draft")
	f.BoolVarP(&newOpts.simulate, "dry-run", "n", false, "Only show the result")
	f.BoolVarP(&newOpts.edit, "edit", "e", false, "Open $EDITOR on the new files")
}

func delspace(r rune) rune {
	if unicode.In(r, unicode.Latin, unicode.Digit) || r == '/' {
		return r
	}
	return '-'
}

// slugify turns a title into a page slug.
func slugify(title string) string {
	s := strings.NewReplacer(
		"ä", "ae",
		"ö", "oe",
		"ü", "ue",
		"ß", "ss").Replace(strings.ToLower(strings.TrimSpace(title)))
	s = strings.Map(delspace, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-/")
}

// scaffold writes a page record and a starter hero section below dir and
// returns the paths written. With write unset nothing is created.
func scaffold(dir, title string, now time.Time, write bool, out io.Writer) ([]string, error) {
	slug := newOpts.slug
	if slug == "" {
		slug = slugify(title)
	}
	slug = blocksite.SlugFromPath(slug)

	meta := blocksite.Meta{
		Title:  title,
		Author: newOpts.author,
		Date:   blocksite.GCTime(now),
		Order:  newOpts.order,
	}
	if newOpts.draft {
		meta.Status = backend.StatusDraft
	}
	hero := section.Section{
		Type:    section.TypeHero,
		Payload: &section.Hero{Heading: title},
	}

	metaBytes, err := json.MarshalIndent(meta, "", "\t")
	if err != nil {
		return nil, err
	}
	heroBytes, err := withOrder(hero, 1)
	if err != nil {
		return nil, err
	}

	pagePath := filepath.Join(dir, backend.CollectionPages, filepath.FromSlash(slug)+".json")
	heroPath := filepath.Join(dir, filepath.FromSlash(backend.SectionsOf(slug)), "01-hero.json")

	fmt.Fprintln(out, pagePath)
	fmt.Fprintln(out, string(metaBytes))
	fmt.Fprintln(out, heroPath)
	fmt.Fprintln(out, string(heroBytes))

	if !write {
		return nil, nil
	}
	if _, err := os.Stat(pagePath); err == nil {
		return nil, errors.Errorf("page %q already exists: %s", slug, pagePath)
	}
	for path, b := range map[string][]byte{pagePath: metaBytes, heroPath: heroBytes} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, append(b, '\n'), 0644); err != nil {
			return nil, errors.Wrapf(err, "Cannot write file: %q", path)
		}
	}
	return []string{pagePath, heroPath}, nil
}

// withOrder encodes s as a record carrying its position.
func withOrder(s section.Section, order int) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	rec["order"] = order
	return json.MarshalIndent(rec, "", "\t")
}

func edit(files ...string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	path, err := exec.LookPath(editor)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, append([]string{"-O"}, files...)...)
	if filepath.Base(path) != "vim" {
		cmd = exec.Command(path, files...)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
