package journal

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
)

// AssetClass buckets instruments for unit conversion and distribution charts.
type AssetClass string

const (
	AssetForex       AssetClass = "FOREX"
	AssetCrypto      AssetClass = "CRYPTO"
	AssetFutures     AssetClass = "FUTURES"
	AssetCommodities AssetClass = "COMMODITIES"
)

// AssetClasses lists every known class in display order.
func AssetClasses() []AssetClass {
	return []AssetClass{AssetForex, AssetCrypto, AssetFutures, AssetCommodities}
}

// ParseAssetClass normalizes free-form input; unknown values fall back to FOREX.
func ParseAssetClass(raw string) AssetClass {
	switch AssetClass(strings.ToUpper(strings.TrimSpace(raw))) {
	case AssetForex:
		return AssetForex
	case AssetCrypto:
		return AssetCrypto
	case AssetFutures:
		return AssetFutures
	case AssetCommodities:
		return AssetCommodities
	default:
		return AssetForex
	}
}

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), string(DirectionShort)) {
		return DirectionShort
	}
	return DirectionLong
}

// Session is the trading-hours window a trade is attributed to.
type Session string

const (
	SessionLondon  Session = "LONDON"
	SessionNY      Session = "NY"
	SessionAsia    Session = "ASIA"
	SessionOverlap Session = "OVERLAP"
)

// Sessions lists the four fixed buckets in display order.
func Sessions() []Session {
	return []Session{SessionLondon, SessionNY, SessionAsia, SessionOverlap}
}

// NormalizeSession maps unknown or legacy values to LONDON so every record
// lands in exactly one bucket.
func NormalizeSession(raw string) Session {
	switch Session(strings.ToUpper(strings.TrimSpace(raw))) {
	case SessionNY:
		return SessionNY
	case SessionAsia:
		return SessionAsia
	case SessionOverlap:
		return SessionOverlap
	default:
		return SessionLondon
	}
}

// InferSession derives a session bucket from the exit instant (UTC hour).
// Zero time means nothing to infer, default bucket applies.
func InferSession(exit time.Time) Session {
	if exit.IsZero() {
		return SessionLondon
	}
	hour := exit.UTC().Hour()
	switch {
	case hour >= 0 && hour < 7:
		return SessionAsia
	case hour >= 13 && hour < 22:
		return SessionNY
	default:
		return SessionLondon
	}
}

type Rating string

const (
	RatingAPlus Rating = "A+"
	RatingA     Rating = "A"
	RatingB     Rating = "B"
	RatingC     Rating = "C"
	RatingNone  Rating = "N/A"
)

func ParseRating(raw string) Rating {
	switch Rating(strings.ToUpper(strings.TrimSpace(raw))) {
	case RatingAPlus:
		return RatingAPlus
	case RatingA:
		return RatingA
	case RatingB:
		return RatingB
	case RatingC:
		return RatingC
	default:
		return RatingNone
	}
}

// TradeRecord is one logged trade. Numeric execution fields stay as decimal
// strings the way the entry form captured them; rr/pips/profit are frozen at
// commit time and treated as authoritative by the analytics layer.
type TradeRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	EntryTime time.Time `json:"entryTime,omitempty"`
	ExitTime  time.Time `json:"exitTime,omitempty"`

	Symbol     string     `json:"symbol"`
	AssetClass AssetClass `json:"assetClass"`
	Type       Direction  `json:"type"`

	Lots  string `json:"lots"`
	Entry string `json:"entry"`
	SL    string `json:"sl"`
	TP    string `json:"tp"`

	RR     string `json:"rr"`
	Pips   string `json:"pips"`
	Profit string `json:"profit"`

	Rating   Rating   `json:"rating"`
	Session  Session  `json:"session"`
	Tags     []string `json:"tags,omitempty"`
	Mistakes []string `json:"mistakes,omitempty"`
	Emotions []string `json:"emotions,omitempty"`

	Analysis           string `json:"analysis"`
	PreMarketAnalysis  string `json:"preMarketAnalysis"`
	PostMarketAnalysis string `json:"postMarketAnalysis"`
	LessonsLearned     string `json:"lessonsLearned"`
	WouldDoDifferently string `json:"wouldDoDifferently"`
	Screenshot         string `json:"screenshot,omitempty"`
	PreChecklist       bool   `json:"preChecklist"`
}

// ProfitValue parses the frozen profit field; malformed values count as 0.
func (t TradeRecord) ProfitValue() float64 {
	return ParseDecimal(t.Profit)
}

// RRValue parses the frozen risk:reward field; malformed values count as 0.
func (t TradeRecord) RRValue() float64 {
	return ParseDecimal(t.RR)
}

// ParseDecimal converts a decimal string to float64 with the journal's
// silent-degrade policy: empty, malformed or non-finite input is 0.
func ParseDecimal(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// AccountState holds the single per-user balance setting.
type AccountState struct {
	InitialBalance float64 `json:"initialBalance"`
}

// GoalConfig holds the user's P&L targets.
type GoalConfig struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// Store is the persistence boundary for trades, account state and goals.
type Store interface {
	ListTrades(ctx context.Context) ([]TradeRecord, error)
	GetTrade(ctx context.Context, id string) (TradeRecord, bool, error)
	UpsertTrade(ctx context.Context, rec TradeRecord) error
	DeleteTrade(ctx context.Context, id string) error

	Account(ctx context.Context) (AccountState, bool, error)
	SetAccount(ctx context.Context, state AccountState) error

	Goals(ctx context.Context) (GoalConfig, bool, error)
	SetGoals(ctx context.Context, goals GoalConfig) error
}
