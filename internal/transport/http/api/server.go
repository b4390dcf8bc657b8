// Package apihttp serves the journal's REST surface: trade CRUD and
// annotation, the stats and chart-series endpoints, the MT5 webhook and
// the economic-calendar proxy.
package apihttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradevo/internal/journal/service"
	"tradevo/internal/logger"
	"tradevo/internal/symbols"
)

// ServerConfig describes the server's dependencies.
type ServerConfig struct {
	Addr     string
	Journal  *service.Service
	Symbols  *symbols.Registry
	Webhook  WebhookOptions
	Calendar CalendarOptions
}

// WebhookOptions gates the MT5 sync endpoint.
type WebhookOptions struct {
	Enabled   bool
	KeyPrefix string
}

// Server hosts the journal API on gin.
type Server struct {
	addr     string
	journal  *service.Service
	symbols  *symbols.Registry
	webhook  WebhookOptions
	calendar *calendarProxy
	router   *gin.Engine
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Journal == nil {
		return nil, errors.New("http server requires journal service")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9981"
	}
	if cfg.Webhook.KeyPrefix == "" {
		cfg.Webhook.KeyPrefix = "mt5_"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		addr:    cfg.Addr,
		journal: cfg.Journal,
		symbols: cfg.Symbols,
		webhook: cfg.Webhook,
		router:  router,
	}
	if cfg.Calendar.UpstreamURL != "" {
		s.calendar = newCalendarProxy(cfg.Calendar)
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.GET("/trades", s.handleListTrades)
	api.POST("/trades", s.handleCommitTrade)
	api.POST("/trades/preview", s.handlePreviewTrade)
	api.GET("/trades/:id", s.handleGetTrade)
	api.PUT("/trades/:id", s.handleAnnotateTrade)
	api.DELETE("/trades/:id", s.handleDeleteTrade)

	api.GET("/account", s.handleGetAccount)
	api.PUT("/account", s.handleSetAccount)
	api.GET("/goals", s.handleGetGoals)
	api.PUT("/goals", s.handleSetGoals)
	api.GET("/goals/progress", s.handleGoalProgress)

	if s.symbols != nil {
		api.GET("/symbols", s.handleSymbols)
	}

	stats := api.Group("/stats")
	stats.GET("", s.handleSummary)
	stats.GET("/equity", s.handleEquityCurve)
	stats.GET("/drawdown", s.handleDrawdownSeries)
	stats.GET("/calendar", s.handleDailyPnL)
	stats.GET("/weekday", s.handleWeekdayPnL)
	stats.GET("/hourly", s.handleHourlyBreakdown)
	stats.GET("/symbols", s.handleTopSymbols)
	stats.GET("/sessions", s.handleSessionBreakdown)
	stats.GET("/tags", s.handleTagBreakdown)
	stats.GET("/mistakes", s.handleMistakeBreakdown)
	stats.GET("/monthly", s.handleMonthlyPnL)
	stats.GET("/assets", s.handleAssetClassCounts)

	if s.webhook.Enabled {
		api.POST("/mt5/sync", s.handleMT5Sync)
	}
	if s.calendar != nil {
		api.GET("/economic-calendar", s.handleCalendar)
		api.OPTIONS("/economic-calendar", s.handleCalendarPreflight)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}
