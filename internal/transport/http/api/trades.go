package apihttp

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradevo/internal/journal"
	"tradevo/internal/journal/service"
	"tradevo/internal/logger"
	"tradevo/internal/metrics"
)

func (s *Server) handleListTrades(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	trades, err := s.journal.ListTrades(c.Request.Context(), query)
	if err != nil {
		logger.Errorf("[api] list trades failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (s *Server) handleCommitTrade(c *gin.Context) {
	var in service.TradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	editing := strings.TrimSpace(in.ID) != ""
	rec, err := s.journal.CommitTrade(c.Request.Context(), in)
	if err != nil {
		logger.Warnf("[api] commit trade failed ip=%s symbol=%s err=%v", c.ClientIP(), strings.ToUpper(strings.TrimSpace(in.Symbol)), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusCreated
	if editing {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"trade": rec})
}

// handlePreviewTrade derives rr/pips/profit from form fields without
// persisting anything, for the live fields on the entry form.
func (s *Server) handlePreviewTrade(c *gin.Context) {
	var req struct {
		AssetClass string `json:"assetClass"`
		Lots       string `json:"lots"`
		Entry      string `json:"entry"`
		SL         string `json:"sl"`
		TP         string `json:"tp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	derived := metrics.Derive(req.Entry, req.SL, req.TP, req.Lots, journal.ParseAssetClass(req.AssetClass))
	c.JSON(http.StatusOK, gin.H{
		"rr":     derived.RR,
		"pips":   derived.Pips,
		"profit": derived.Profit,
	})
}

func (s *Server) handleGetTrade(c *gin.Context) {
	rec, found, err := s.journal.GetTrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": rec})
}

func (s *Server) handleAnnotateTrade(c *gin.Context) {
	var upd service.Annotation
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.journal.Annotate(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": rec})
}

func (s *Server) handleDeleteTrade(c *gin.Context) {
	id := c.Param("id")
	if err := s.journal.DeleteTrade(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] trade deleted ip=%s id=%s", c.ClientIP(), id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetAccount(c *gin.Context) {
	state, err := s.journal.Account(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": state})
}

func (s *Server) handleSetAccount(c *gin.Context) {
	var state journal.AccountState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.journal.SetAccount(c.Request.Context(), state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": state})
}

func (s *Server) handleGetGoals(c *gin.Context) {
	goals, err := s.journal.Goals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func (s *Server) handleSetGoals(c *gin.Context) {
	var goals journal.GoalConfig
	if err := c.ShouldBindJSON(&goals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.journal.SetGoals(c.Request.Context(), goals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func (s *Server) handleGoalProgress(c *gin.Context) {
	progress, err := s.journal.GoalProgress(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

func (s *Server) handleSymbols(c *gin.Context) {
	snap := s.symbols.Snapshot()
	pairs := make(map[string][]string, len(snap.Pairs))
	for class, list := range snap.Pairs {
		pairs[string(class)] = list
	}
	c.JSON(http.StatusOK, gin.H{"assetPairs": pairs, "version": snap.Version})
}
