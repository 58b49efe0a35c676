package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio rendered from spreadsheet feeds",
	Long: `Portfolio fetches the profile, projects and certificates tabs of a
published spreadsheet and renders them into the portfolio page.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file")
	rootCmd.AddCommand(serveCmd, renderCmd)
	renderCmd.Flags().StringP("output", "o", "dist/index.html", "file to write the rendered page to")
}

// setup loads config and builds the app; the caller owns both returned values.
func setup() (*App, *zap.Logger, error) {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := NewLogger(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		return nil, nil, err
	}
	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, fmt.Errorf("building app: %w", err)
	}
	return app, logger, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer app.Close()

		gin.SetMode(app.cfg.GinMode)
		if app.tracker != nil {
			// Clean up old visitor data for privacy compliance
			go app.tracker.Cleanup()
		}

		srv := &http.Server{
			Addr:         ":" + app.cfg.Port,
			Handler:      app.NewRouter(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: app.cfg.FetchTimeout + 10*time.Second,
		}

		servers := []*http.Server{srv}
		if app.cfg.MetricsAddr != "" {
			servers = append(servers, &http.Server{
				Addr:        app.cfg.MetricsAddr,
				Handler:     app.NewMetricsRouter(),
				ReadTimeout: 10 * time.Second,
			})
		}
		for _, s := range servers {
			go func() {
				if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("could not start server", zap.String("addr", s.Addr), zap.Error(err))
				}
			}()
		}
		logger.Info("server started", zap.String("port", app.cfg.Port), zap.String("metrics", app.cfg.MetricsAddr))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
		}
		logger.Info("server exiting")
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run one load pass and write the page to a file",
	Long: `Render fetches the feeds once and writes a standalone page. Project
details open from data embedded in each card and the navigation is
highlighted in the browser, so the file works from any static host. The
contact form needs the server and is replaced by a pointer to the e-mail link.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		app, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer app.Close()

		page, err := app.loader.Export(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		if err := os.WriteFile(out, []byte(page.HTML), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		logger.Info("page rendered",
			zap.String("output", out),
			zap.Int("projects", page.Projects.Len()),
			zap.Any("failures", page.Failures()),
		)
		return nil
	},
}
