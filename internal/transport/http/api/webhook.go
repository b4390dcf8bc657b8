package apihttp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"tradevo/internal/journal/service"
	"tradevo/internal/logger"
)

// MT5 expert advisors serialize numbers inconsistently across builds, so
// the schema admits both forms and gjson coerces everything to strings.
const mt5PayloadSchema = `{
	"type": "object",
	"required": ["ticket", "symbol", "type", "entry", "exit", "profit"],
	"properties": {
		"ticket":     {"type": ["string", "number"]},
		"symbol":     {"type": "string", "minLength": 1},
		"assetClass": {"type": "string"},
		"type":       {"type": "string"},
		"lots":       {"type": ["string", "number"]},
		"entry":      {"type": ["string", "number"]},
		"exit":       {"type": ["string", "number"]},
		"sl":         {"type": ["string", "number"]},
		"tp":         {"type": ["string", "number"]},
		"profit":     {"type": ["string", "number"]},
		"pips":       {"type": ["string", "number"]},
		"openTime":   {"type": "string"},
		"closeTime":  {"type": "string"}
	}
}`

var mt5Schema = jsonschema.MustCompileString("mt5-sync.json", mt5PayloadSchema)

func (s *Server) handleMT5Sync(c *gin.Context) {
	userID, ok := s.authorizeWebhook(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json payload"})
		return
	}
	if err := mt5Schema.Validate(doc); err != nil {
		logger.Warnf("[api] mt5 sync rejected user=%s ip=%s err=%v", userID, c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.MT5Trade{
		Ticket:     gjson.GetBytes(raw, "ticket").String(),
		Symbol:     gjson.GetBytes(raw, "symbol").String(),
		AssetClass: gjson.GetBytes(raw, "assetClass").String(),
		Type:       gjson.GetBytes(raw, "type").String(),
		Lots:       gjson.GetBytes(raw, "lots").String(),
		Entry:      gjson.GetBytes(raw, "entry").String(),
		Exit:       gjson.GetBytes(raw, "exit").String(),
		SL:         gjson.GetBytes(raw, "sl").String(),
		TP:         gjson.GetBytes(raw, "tp").String(),
		Profit:     gjson.GetBytes(raw, "profit").String(),
		Pips:       gjson.GetBytes(raw, "pips").String(),
		EntryTime:  gjson.GetBytes(raw, "openTime").String(),
		ExitTime:   gjson.GetBytes(raw, "closeTime").String(),
	}
	if in.AssetClass == "" && s.symbols != nil {
		in.AssetClass = string(s.symbols.ClassFor(in.Symbol))
	}

	rec, created, err := s.journal.ImportMT5(c.Request.Context(), in)
	if err != nil {
		logger.Errorf("[api] mt5 sync failed user=%s ticket=%s err=%v", userID, in.Ticket, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action := "updated"
	status := http.StatusOK
	if created {
		action = "created"
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"status": "ok", "action": action, "tradeId": rec.ID})
}

// authorizeWebhook checks the x-api-key header. Keys look like
// mt5_<userID>_<timestamp>_<random>; the embedded user id tags log lines.
func (s *Server) authorizeWebhook(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.GetHeader("x-api-key"))
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing api key"})
		return "", false
	}
	prefix := s.webhook.KeyPrefix
	if !strings.HasPrefix(key, prefix) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return "", false
	}
	parts := strings.Split(strings.TrimPrefix(key, prefix), "_")
	if len(parts) < 3 || parts[0] == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return "", false
	}
	return parts[0], true
}
