package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// NewRouter wires every route onto a gin engine.
func (a *App) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(), loggingMiddleware(a.logger), gin.Recovery())
	if a.tracker != nil {
		r.Use(visitorTrackingMiddleware(a.tracker, a.logger))
	}
	r.SetHTMLTemplate(a.tmpl)
	r.StaticFS("/static", http.FS(staticFiles()))

	r.GET("/", a.handleIndex)
	r.POST("/events/modal-open", a.handleModalOpened)
	r.GET("/nav", a.handleNav)
	r.GET("/healthz", a.handleHealth)

	a.setupContactRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

func (a *App) handleIndex(c *gin.Context) {
	page, err := a.loader.Load(c.Request.Context())
	if err != nil {
		a.logger.Error("rendering page", zap.Error(err))
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	a.last.Store(page)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page.HTML))
}

// NewMetricsRouter serves /metrics. It is bound to its own listener so the
// public router never exposes it.
func (a *App) NewMetricsRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	return r
}

// handleModalOpened counts a modal the browser opened from a card. Cards
// carry their own record, so nothing is looked up here.
func (a *App) handleModalOpened(c *gin.Context) {
	category, ok := ParseCategory(c.Query("category"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	a.metrics.IncModalOpens(category)

	if a.tracker != nil && c.GetHeader("DNT") != "1" {
		path := "/modal/" + string(category)
		if err := a.tracker.Track(c.ClientIP(), c.GetHeader("User-Agent"), path, time.Now()); err != nil {
			a.logger.Warn("tracking modal open", zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

func (a *App) handleNav(c *gin.Context) {
	y, err := strconv.ParseFloat(c.DefaultQuery("y", "0"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid scroll offset")
		return
	}
	sections, err := ParseSections(c.Query("sections"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	current := a.spy.Current(sections, int(y))
	c.HTML(http.StatusOK, "nav", a.spy.View(current, false))
}

// feedStatus summarises the last load pass.
func (a *App) feedStatus() gin.H {
	page := a.LastPage()
	if page == nil {
		return gin.H{"state": StateLoading.String(), "failures": gin.H{}}
	}
	return gin.H{
		"state":     page.State.String(),
		"failures":  page.Failures(),
		"projects":  page.Projects.Len(),
		"recovered": page.Recovered,
	}
}

func (a *App) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"last_load": a.feedStatus(),
	})
}
