package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/config"
	"github.com/lemmi/blocksite/section"
)

var (
	rootCmd = &cobra.Command{
		Use:           "gctool",
		Short:         "Edit and inspect blocksite content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfgPath    string
	contentDir string
	dbPath     string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&contentDir, "dir", "C", "", "content directory (overrides content.dir)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite content database (overrides content.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(reorderCmd)
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig applies the command line overrides to the loaded config.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if contentDir != "" {
		cfg.Content.Dir = contentDir
	}
	if dbPath != "" {
		cfg.Content.DB = dbPath
	}
	return cfg, nil
}

// openSite opens the configured content and returns the site built on it.
// The caller closes the content.
func openSite() (*config.Content, *blocksite.Site, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	content, err := cfg.Content.Open()
	if err != nil {
		return nil, nil, err
	}
	site := blocksite.NewSite(content.Store, section.NewDefaultRegistry(), blocksite.Settings{
		SiteName:   cfg.Site.Name,
		FormAction: cfg.Site.FormAction,
	}, logger())
	return content, site, nil
}
