// Package model holds the gorm table definitions for the journal store.
package model

import "gorm.io/datatypes"

// TradeModel persists one journal trade. Timestamps are unix millis; the
// label sets (tags, mistakes, emotions) are JSON arrays.
type TradeModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	Timestamp  int64  `gorm:"column:timestamp;index"`
	EntryTime  int64  `gorm:"column:entry_time"`
	ExitTime   int64  `gorm:"column:exit_time"`
	Symbol     string `gorm:"column:symbol;index"`
	AssetClass string `gorm:"column:asset_class;index"`
	Direction  string `gorm:"column:direction"`

	Lots   string `gorm:"column:lots"`
	Entry  string `gorm:"column:entry"`
	SL     string `gorm:"column:sl"`
	TP     string `gorm:"column:tp"`
	RR     string `gorm:"column:rr"`
	Pips   string `gorm:"column:pips"`
	Profit string `gorm:"column:profit"`

	Rating   string         `gorm:"column:rating"`
	Session  string         `gorm:"column:session;index"`
	Tags     datatypes.JSON `gorm:"column:tags"`
	Mistakes datatypes.JSON `gorm:"column:mistakes"`
	Emotions datatypes.JSON `gorm:"column:emotions"`

	Analysis           string `gorm:"column:analysis"`
	PreMarketAnalysis  string `gorm:"column:pre_market_analysis"`
	PostMarketAnalysis string `gorm:"column:post_market_analysis"`
	LessonsLearned     string `gorm:"column:lessons_learned"`
	WouldDoDifferently string `gorm:"column:would_do_differently"`
	Screenshot         string `gorm:"column:screenshot"`
	PreChecklist       bool   `gorm:"column:pre_checklist"`

	CreatedAtUnix int64 `gorm:"column:created_at"`
	UpdatedAtUnix int64 `gorm:"column:updated_at"`
}

func (TradeModel) TableName() string { return "trades" }

// AccountModel is a single-row table holding the account settings.
type AccountModel struct {
	ID             int     `gorm:"column:id;primaryKey"`
	InitialBalance float64 `gorm:"column:initial_balance"`
	UpdatedAtUnix  int64   `gorm:"column:updated_at"`
}

func (AccountModel) TableName() string { return "account" }

// GoalModel is a single-row table holding the P&L targets.
type GoalModel struct {
	ID            int     `gorm:"column:id;primaryKey"`
	Daily         float64 `gorm:"column:daily"`
	Weekly        float64 `gorm:"column:weekly"`
	Monthly       float64 `gorm:"column:monthly"`
	UpdatedAtUnix int64   `gorm:"column:updated_at"`
}

func (GoalModel) TableName() string { return "goals" }
