package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Published TSV exports of the portfolio spreadsheet.
const (
	defaultProfileFeedURL  = "https://docs.google.com/spreadsheets/d/e/2PACX-1vS4c0Z-2wtg7pJ8tPEfeplaNCkVWMJGUEI1mS2ig3dcIXFtoXkBk6zX15G-Wo1ObQZF18KAhGj-r59o/pub?gid=1068168971&single=true&output=tsv"
	defaultProjectsFeedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vS4c0Z-2wtg7pJ8tPEfeplaNCkVWMJGUEI1mS2ig3dcIXFtoXkBk6zX15G-Wo1ObQZF18KAhGj-r59o/pub?gid=0&single=true&output=tsv"
	defaultCertsFeedURL    = "https://docs.google.com/spreadsheets/d/e/2PACX-1vS4c0Z-2wtg7pJ8tPEfeplaNCkVWMJGUEI1mS2ig3dcIXFtoXkBk6zX15G-Wo1ObQZF18KAhGj-r59o/pub?gid=700819754&single=true&output=tsv"
)

// Config stores all configuration for the portfolio server.
type Config struct {
	Port     string `mapstructure:"PORT"`
	GinMode  string `mapstructure:"GIN_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// MetricsAddr is the separate listener for /metrics; empty disables it.
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	ProfileFeedURL  string        `mapstructure:"PROFILE_FEED_URL"`
	ProjectsFeedURL string        `mapstructure:"PROJECTS_FEED_URL"`
	CertsFeedURL    string        `mapstructure:"CERTS_FEED_URL"`
	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`

	FallbackImage   string `mapstructure:"FALLBACK_IMAGE"`
	TitleSuffix     string `mapstructure:"TITLE_SUFFIX"`
	ScrollLookahead int    `mapstructure:"SCROLL_LOOKAHEAD"`

	TrackingEnabled bool   `mapstructure:"TRACKING_ENABLED"`
	DatabasePath    string `mapstructure:"DATABASE_PATH"`
	AdminUsername   string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword   string `mapstructure:"ADMIN_PASSWORD"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort string `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	ToEmail  string `mapstructure:"TO_EMAIL"`
}

// FeedURLs maps each feed to the remote resource it is read from.
func (c *Config) FeedURLs() map[Feed]string {
	return map[Feed]string{
		FeedProfile:  c.ProfileFeedURL,
		FeedProjects: c.ProjectsFeedURL,
		FeedCerts:    c.CertsFeedURL,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ADDR", "127.0.0.1:9091")
	v.SetDefault("PROFILE_FEED_URL", defaultProfileFeedURL)
	v.SetDefault("PROJECTS_FEED_URL", defaultProjectsFeedURL)
	v.SetDefault("CERTS_FEED_URL", defaultCertsFeedURL)
	v.SetDefault("FETCH_TIMEOUT", 15*time.Second)
	v.SetDefault("FALLBACK_IMAGE", DefaultFallbackImage)
	v.SetDefault("TITLE_SUFFIX", "Portfólio")
	v.SetDefault("SCROLL_LOOKAHEAD", 200)
	v.SetDefault("TRACKING_ENABLED", true)
	v.SetDefault("DATABASE_PATH", "portfolio.db")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("TO_EMAIL", "")
}

// LoadConfig reads configuration from an optional YAML file, then
// environment variables, falling back to defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.ScrollLookahead < 0 {
		return nil, fmt.Errorf("SCROLL_LOOKAHEAD must not be negative, got %d", cfg.ScrollLookahead)
	}
	return &cfg, nil
}
