// admin.go - privacy-conscious visitor tracking and the admin dashboard
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sqliteTime is how timestamps are written, so DATE() and datetime()
// comparisons work on the stored text.
const sqliteTime = "2006-01-02 15:04:05"

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type AdminStats struct {
	TotalViews     int64           `json:"total_views"`
	UniqueVisitors int64           `json:"unique_visitors"`
	ViewsToday     int64           `json:"views_today"`
	ViewsThisWeek  int64           `json:"views_this_week"`
	ModalOpens     int64           `json:"modal_opens"`
	TopPaths       []PathStat      `json:"top_paths"`
	RecentVisitors []VisitorMetric `json:"recent_visitors"`
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// VisitorTracker stores page views with salted, truncated IP hashes.
type VisitorTracker struct {
	db     *sql.DB
	salt   string
	logger *zap.Logger
}

func NewVisitorTracker(db *sql.DB, logger *zap.Logger) (*VisitorTracker, error) {
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}
	t := &VisitorTracker{db: db, salt: salt, logger: logger}

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,  -- Store hashed IP instead of raw IP
		user_agent TEXT,
		path TEXT,
		timestamp TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creating visitors table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors (timestamp)`); err != nil {
		return nil, fmt.Errorf("creating visitors index: %w", err)
	}

	logger.Info("privacy-conscious visitor tracking initialized")
	return t, nil
}

// HashIP is stable per IP for the lifetime of the process.
func (t *VisitorTracker) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + t.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

func (t *VisitorTracker) Track(ip, userAgent, path string, at time.Time) error {
	_, err := t.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, t.HashIP(ip), userAgent, path, at.UTC().Format(sqliteTime))
	if err != nil {
		return fmt.Errorf("recording visitor: %w", err)
	}
	return nil
}

// Cleanup drops visits older than twelve months.
func (t *VisitorTracker) Cleanup() (int64, error) {
	res, err := t.db.Exec(`DELETE FROM visitors WHERE timestamp < datetime('now', '-12 months')`)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitor data: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		t.logger.Info("privacy cleanup removed old visitor records", zap.Int64("rows", n))
	}
	return n, nil
}

func (t *VisitorTracker) Stats() (*AdminStats, error) {
	stats := &AdminStats{}

	counters := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, &stats.TotalViews},
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')`, &stats.ViewsToday},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')`, &stats.ViewsThisWeek},
		{`SELECT COUNT(*) FROM visitors WHERE path LIKE '/modal/%'`, &stats.ModalOpens},
	}
	for _, c := range counters {
		if err := t.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("querying stats: %w", err)
		}
	}

	rows, err := t.db.Query(`
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("querying top paths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ps PathStat
		if err := rows.Scan(&ps.Path, &ps.Views); err != nil {
			continue
		}
		stats.TopPaths = append(stats.TopPaths, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading top paths: %w", err)
	}

	stats.RecentVisitors, err = t.Recent(50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (t *VisitorTracker) Recent(limit int) ([]VisitorMetric, error) {
	rows, err := t.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp, _ = time.Parse(sqliteTime, ts)
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// skipTracking lists paths that are never recorded.
// Modal opens are recorded by their own handler once the category checks out.
var skipTracking = []string{"/static/", "/admin/", "/favicon", "/privacy", "/nav", "/healthz", "/events/"}

// visitorTrackingMiddleware records views in the background. Do Not Track
// is honoured.
func visitorTrackingMiddleware(t *VisitorTracker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skipTracking {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			if err := t.Track(ip, ua, path, time.Now()); err != nil {
				logger.Warn("tracking visit", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// AdminAuth issues the random per-process admin cookie token.
type AdminAuth struct {
	token    string
	username string
	password string
	logger   *zap.Logger
}

func NewAdminAuth(cfg *Config, logger *zap.Logger) (*AdminAuth, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	a := &AdminAuth{token: token, username: cfg.AdminUsername, password: cfg.AdminPassword, logger: logger}

	// Default credentials for development only
	if cfg.GinMode == gin.DebugMode {
		if a.username == "" {
			a.username = "admin"
			logger.Warn("using default admin username, set ADMIN_USERNAME")
		}
		if a.password == "" {
			a.password = "admin123"
			logger.Warn("using default admin password, set ADMIN_PASSWORD")
		}
		logger.Debug("admin token (dev only)", zap.String("token", token))
	}
	return a, nil
}

// Check rejects everything while credentials are unset.
func (a *AdminAuth) Check(username, password string) bool {
	if a.username == "" || a.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *AdminAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Setup all admin routes
func (a *App) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":    "Privacy Policy",
			"tracking": a.tracker != nil,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.admin.Check(c.PostForm("username"), c.PostForm("password")) {
			a.logger.Warn("failed admin login attempt", zap.String("client", a.clientHash(c)))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		// Set secure cookie (24 hours)
		c.SetCookie("admin_token", a.admin.token, 3600*24, "/admin", "", false, true)
		a.logger.Info("admin login successful", zap.String("client", a.clientHash(c)))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.admin.Middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.adminStats()
		if err != nil {
			a.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
			"page":  a.feedStatus(),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.adminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		if a.tracker == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "visitor tracking is disabled"})
			return
		}
		removed, err := a.tracker.Cleanup()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.adminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", zap.String("client", a.clientHash(c)))
		c.JSON(http.StatusOK, stats)
	})
}

func (a *App) adminStats() (*AdminStats, error) {
	if a.tracker == nil {
		return &AdminStats{}, nil
	}
	return a.tracker.Stats()
}

// clientHash keeps raw client IPs out of the logs.
func (a *App) clientHash(c *gin.Context) string {
	if a.tracker == nil {
		return ""
	}
	return a.tracker.HashIP(c.ClientIP())
}
