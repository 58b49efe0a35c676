package main

import (
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
)

// App is built once at startup and handed to every component that needs
// shared state.
type App struct {
	cfg     *Config
	logger  *zap.Logger
	metrics *Metrics
	tmpl    *template.Template
	images  ImageResolver
	spy     *ScrollSpy
	loader  *Loader
	mailer  *Mailer
	admin   *AdminAuth

	db      *sql.DB
	tracker *VisitorTracker

	// last holds the most recent load pass, used to resolve modal requests.
	last atomic.Pointer[Page]
}

func NewApp(cfg *Config, logger *zap.Logger) (*App, error) {
	images := NewImageResolver(cfg.FallbackImage)
	tmpl, err := parseTemplates(images)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	metrics := NewMetrics()
	spy := NewScrollSpy(cfg.ScrollLookahead, NavLinks)
	fetcher := NewSheetFetcher(&http.Client{Timeout: cfg.FetchTimeout}, cfg.FeedURLs(), metrics, logger)

	app := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		tmpl:    tmpl,
		images:  images,
		spy:     spy,
		loader:  NewLoader(fetcher, tmpl, spy, images, cfg.TitleSuffix, metrics, logger),
	}
	app.mailer = NewMailer(cfg, app.profile, logger)

	admin, err := NewAdminAuth(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.admin = admin

	if cfg.TrackingEnabled {
		db, err := OpenDB(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		tracker, err := NewVisitorTracker(db, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		app.db = db
		app.tracker = tracker
	}
	return app, nil
}

// LastPage is nil until the first load pass has finished.
func (a *App) LastPage() *Page {
	return a.last.Load()
}

// profile is the profile of the last load pass, if it had one.
func (a *App) profile() *ProfileRecord {
	if p := a.LastPage(); p != nil {
		return p.Profile
	}
	return nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
