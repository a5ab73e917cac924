package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lemmi/compress"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/config"
	"github.com/lemmi/blocksite/section"
)

func main() {
	cfgPath := flag.String("config", "", "path to the config file")
	debug := flag.Bool("debug", false, "set debug output")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Server.Debug = true
	}
	if cfg.Server.Debug {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		log.Debug("configuration", "config", cfg)
	}

	content, err := cfg.Content.Open()
	if err != nil {
		log.Error("cannot open content", "dir", cfg.Content.Dir, "error", err)
		os.Exit(1)
	}
	defer content.Close()

	site := blocksite.NewSite(content.Store, section.NewDefaultRegistry(), blocksite.Settings{
		SiteName:   cfg.Site.Name,
		FormAction: cfg.Site.FormAction,
	}, log)
	srv, err := NewServer(content, site, log, cfg.Server.Debug)
	if err != nil {
		log.Error("cannot load templates", "error", err)
		os.Exit(1)
	}

	ln, err := net.Listen(cfg.Server.Net, cfg.Server.Bind)
	if err != nil {
		log.Error("cannot listen", "net", cfg.Server.Net, "bind", cfg.Server.Bind, "error", err)
		os.Exit(1)
	}
	if strings.HasPrefix(cfg.Server.Net, "unix") {
		if err := os.Chmod(cfg.Server.Bind, 0666); err != nil {
			log.Error("cannot chmod socket", "error", err)
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Handler:      compress.New(srv),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting gcserver", "net", cfg.Server.Net, "bind", cfg.Server.Bind, "content", cfg.Content.Dir, "git", cfg.Content.Git)
	if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
