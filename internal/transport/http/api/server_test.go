package apihttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"tradevo/internal/journal"
	"tradevo/internal/journal/service"
	"tradevo/internal/store/memstore"
)

func newTestServer(t *testing.T, opts ...func(*ServerConfig)) *Server {
	t.Helper()
	svc, err := service.New(memstore.New(), 10000, journal.GoalConfig{Daily: 100, Weekly: 500, Monthly: 2000})
	require.NoError(t, err)
	cfg := ServerConfig{
		Addr:    ":0",
		Journal: svc,
		Webhook: WebhookOptions{Enabled: true, KeyPrefix: "mt5_"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestCommitAndListTrades(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/trades", `{
		"symbol": "xauusd", "assetClass": "COMMODITIES", "type": "LONG",
		"lots": "1", "entry": "2000", "sl": "1990", "tp": "2030"
	}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, "XAUUSD", body.Get("trade.symbol").String())
	assert.Equal(t, "3.00", body.Get("trade.rr").String())
	assert.Equal(t, "3000.00", body.Get("trade.profit").String())
	id := body.Get("trade.id").String()
	assert.True(t, strings.HasPrefix(id, "TRD-"))

	w = doJSON(t, srv, http.MethodGet, "/api/trades", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "count").Int())

	w = doJSON(t, srv, http.MethodGet, "/api/trades?q=eurusd", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "count").Int())
}

func TestCommitTradeRequiresSymbol(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trades", `{"entry": "1.0"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trades/preview", `{
		"assetClass": "FOREX", "lots": "2", "entry": "1.1000", "sl": "1.0950", "tp": "1.1100"
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, "2.00", body.Get("rr").String())
	assert.Equal(t, "100.0", body.Get("pips").String())
	assert.Equal(t, "200.00", body.Get("profit").String())

	w = doJSON(t, srv, http.MethodGet, "/api/trades", "", nil)
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "count").Int())
}

func TestAnnotateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trades", `{
		"symbol": "EURUSD", "assetClass": "FOREX", "type": "SHORT",
		"lots": "1", "entry": "1.10", "sl": "1.11", "tp": "1.08"
	}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "trade.id").String()

	w = doJSON(t, srv, http.MethodPut, "/api/trades/"+id, `{
		"rating": "A+", "tags": ["Breakout"], "lessonsLearned": "wait for the close"
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, "A+", body.Get("trade.rating").String())
	assert.Equal(t, "Breakout", body.Get("trade.tags.0").String())

	w = doJSON(t, srv, http.MethodPut, "/api/trades/TRD-MISSING1", `{"rating": "B"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/api/trades/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, srv, http.MethodGet, "/api/trades/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountAndGoalsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/account", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10000), gjson.Get(w.Body.String(), "account.initialBalance").Float())

	w = doJSON(t, srv, http.MethodPut, "/api/account", `{"initialBalance": 25000}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, srv, http.MethodGet, "/api/account", "", nil)
	assert.Equal(t, float64(25000), gjson.Get(w.Body.String(), "account.initialBalance").Float())

	w = doJSON(t, srv, http.MethodPut, "/api/account", `{"initialBalance": -5}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPut, "/api/goals", `{"daily": 150, "weekly": 700, "monthly": 3000}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, srv, http.MethodGet, "/api/goals", "", nil)
	assert.Equal(t, float64(700), gjson.Get(w.Body.String(), "goals.weekly").Float())

	w = doJSON(t, srv, http.MethodGet, "/api/goals/progress", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, trade := range []string{
		`{"symbol": "EURUSD", "assetClass": "FOREX", "type": "LONG", "lots": "1", "entry": "1.10", "sl": "1.09", "tp": "1.12"}`,
		`{"symbol": "BTCUSDT", "assetClass": "CRYPTO", "type": "SHORT", "lots": "2", "entry": "60000", "sl": "61000", "tp": "58000"}`,
	} {
		w := doJSON(t, srv, http.MethodPost, "/api/trades", trade, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "stats.totalTrades").Int())

	w = doJSON(t, srv, http.MethodGet, "/api/stats/equity", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	points := gjson.Get(w.Body.String(), "points").Array()
	require.Len(t, points, 3)
	assert.Equal(t, "Start", points[0].Get("label").String())

	w = doJSON(t, srv, http.MethodGet, "/api/stats/hourly", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Get(w.Body.String(), "hours").Array(), 24)

	w = doJSON(t, srv, http.MethodGet, "/api/stats/symbols?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Get(w.Body.String(), "symbols").Array(), 1)

	w = doJSON(t, srv, http.MethodGet, "/api/stats/assets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "assets.CRYPTO").Int())
}

func TestMT5WebhookAuth(t *testing.T) {
	srv := newTestServer(t)
	payload := `{"ticket": "123", "symbol": "EURUSD", "type": "LONG", "entry": "1.1", "exit": "1.2", "profit": "50"}`

	w := doJSON(t, srv, http.MethodPost, "/api/mt5/sync", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/mt5/sync", payload, map[string]string{"x-api-key": "bogus_u1_1_abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/mt5/sync", payload, map[string]string{"x-api-key": "mt5_u1_1733000000_abc123"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMT5WebhookCreateThenUpdate(t *testing.T) {
	srv := newTestServer(t)
	key := map[string]string{"x-api-key": "mt5_u1_1733000000_abc123"}
	payload := `{
		"ticket": 987654, "symbol": "XAUUSD", "type": "SHORT",
		"lots": 0.5, "entry": 2400, "exit": 2380, "sl": 2410, "profit": -120.5,
		"openTime": "2026-03-02 09:15:00", "closeTime": "2026-03-02 14:30:00"
	}`

	w := doJSON(t, srv, http.MethodPost, "/api/mt5/sync", payload, key)
	require.Equal(t, http.StatusCreated, w.Code)
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, "created", body.Get("action").String())
	assert.Equal(t, "MT5-987654", body.Get("tradeId").String())

	w = doJSON(t, srv, http.MethodPost, "/api/mt5/sync", payload, key)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", gjson.Get(w.Body.String(), "action").String())

	w = doJSON(t, srv, http.MethodGet, "/api/trades", "", nil)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "count").Int())
	assert.Equal(t, "NY", gjson.Get(w.Body.String(), "trades.0.session").String())
}

func TestMT5WebhookRejectsIncompletePayload(t *testing.T) {
	srv := newTestServer(t)
	key := map[string]string{"x-api-key": "mt5_u1_1733000000_abc123"}

	w := doJSON(t, srv, http.MethodPost, "/api/mt5/sync", `{"ticket": "1", "symbol": "EURUSD"}`, key)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/mt5/sync", `not json`, key)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarProxyCachesAndFilters(t *testing.T) {
	var hits atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title": "NFP", "country": "USD", "impact": "High"},
			{"title": "ECB Rate", "country": "EUR", "impact": "High"},
			{"title": "PMI", "country": "USD", "impact": "Low"}
		]`))
	}))
	defer upstream.Close()

	srv := newTestServer(t, func(cfg *ServerConfig) {
		cfg.Calendar = CalendarOptions{UpstreamURL: upstream.URL, CacheTTL: time.Minute}
	})

	w := doJSON(t, srv, http.MethodGet, "/api/economic-calendar", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Len(t, gjson.Parse(w.Body.String()).Array(), 3)

	w = doJSON(t, srv, http.MethodGet, "/api/economic-calendar?currency=usd&impact=high", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := gjson.Parse(w.Body.String()).Array()
	require.Len(t, events, 1)
	assert.Equal(t, "NFP", events[0].Get("title").String())

	assert.Equal(t, int64(1), hits.Load())
}

func TestCalendarProxyUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	srv := newTestServer(t, func(cfg *ServerConfig) {
		cfg.Calendar = CalendarOptions{UpstreamURL: upstream.URL}
	})

	w := doJSON(t, srv, http.MethodGet, "/api/economic-calendar", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
