package apihttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"tradevo/internal/logger"
)

// CalendarOptions configures the economic-calendar proxy.
type CalendarOptions struct {
	UpstreamURL string
	CacheTTL    time.Duration
	Timeout     time.Duration
	Client      *http.Client
}

// calendarProxy caches the upstream feed so the dashboard can poll
// freely without hammering the provider.
type calendarProxy struct {
	upstream string
	ttl      time.Duration
	client   *http.Client
	now      func() time.Time

	mu        sync.Mutex
	cached    []byte
	fetchedAt time.Time
}

func newCalendarProxy(opts CalendarOptions) *calendarProxy {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &calendarProxy{
		upstream: opts.UpstreamURL,
		ttl:      opts.CacheTTL,
		client:   client,
		now:      time.Now,
	}
}

// events returns the cached feed, refetching when stale. A fetch failure
// with a warm cache serves the stale copy.
func (p *calendarProxy) events(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached != nil && p.now().Sub(p.fetchedAt) < p.ttl {
		return p.cached, nil
	}
	raw, err := p.fetch(ctx)
	if err != nil {
		if p.cached != nil {
			logger.Warnf("calendar refresh failed, serving stale copy: %v", err)
			return p.cached, nil
		}
		return nil, err
	}
	p.cached = raw
	p.fetchedAt = p.now()
	return raw, nil
}

func (p *calendarProxy) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar upstream unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar upstream returned %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("calendar upstream returned invalid json")
	}
	return raw, nil
}

// RefreshCalendar warms the proxy cache; the app's prefetch loop calls it
// so the first dashboard load never waits on the upstream.
func (s *Server) RefreshCalendar(ctx context.Context) error {
	if s.calendar == nil {
		return nil
	}
	_, err := s.calendar.events(ctx)
	return err
}

// The feed is public data and the dashboard may be served from another
// origin, so the proxy answers any origin.
func calendarCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) handleCalendarPreflight(c *gin.Context) {
	calendarCORS(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCalendar(c *gin.Context) {
	calendarCORS(c)
	raw, err := s.calendar.events(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(c.Query("currency")))
	impact := strings.TrimSpace(c.Query("impact"))
	if currency == "" && impact == "" {
		c.Data(http.StatusOK, "application/json", raw)
		return
	}

	filtered := make([]string, 0, 64)
	for _, ev := range gjson.ParseBytes(raw).Array() {
		if currency != "" && strings.ToUpper(ev.Get("country").String()) != currency {
			continue
		}
		if impact != "" && !strings.EqualFold(ev.Get("impact").String(), impact) {
			continue
		}
		filtered = append(filtered, ev.Raw)
	}
	body := "[" + strings.Join(filtered, ",") + "]"
	c.Data(http.StatusOK, "application/json", []byte(body))
}
