package apihttp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradevo/internal/journal"
	"tradevo/internal/metrics"
)

// snapshot loads the full trade list and the account balance that the
// metrics engine computes over. Writes the error response itself on
// failure.
func (s *Server) snapshot(c *gin.Context) ([]journal.TradeRecord, float64, bool) {
	ctx := c.Request.Context()
	trades, err := s.journal.ListTrades(ctx, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, 0, false
	}
	state, err := s.journal.Account(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, 0, false
	}
	return trades, state.InitialBalance, true
}

func (s *Server) handleSummary(c *gin.Context) {
	trades, balance, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": metrics.Summarize(trades, balance)})
}

func (s *Server) handleEquityCurve(c *gin.Context) {
	trades, balance, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": metrics.EquityCurve(trades, balance)})
}

func (s *Server) handleDrawdownSeries(c *gin.Context) {
	trades, balance, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": metrics.DrawdownSeries(trades, balance)})
}

func (s *Server) handleDailyPnL(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": metrics.DailyPnL(trades)})
}

func (s *Server) handleWeekdayPnL(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"weekdays": metrics.WeekdayPnL(trades)})
}

func (s *Server) handleHourlyBreakdown(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": metrics.HourlyBreakdown(trades)})
}

func (s *Server) handleTopSymbols(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	c.JSON(http.StatusOK, gin.H{"symbols": metrics.TopSymbols(trades, limit)})
}

func (s *Server) handleSessionBreakdown(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": metrics.SessionBreakdown(trades)})
}

func (s *Server) handleTagBreakdown(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	c.JSON(http.StatusOK, gin.H{"tags": metrics.TagBreakdown(trades, limit)})
}

func (s *Server) handleMistakeBreakdown(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"mistakes": metrics.MistakeBreakdown(trades)})
}

func (s *Server) handleMonthlyPnL(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": metrics.MonthlyPnL(trades)})
}

func (s *Server) handleAssetClassCounts(c *gin.Context) {
	trades, _, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": metrics.AssetClassCounts(trades)})
}
