// Package gormstore implements journal.Store on Gorm + SQLite.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"tradevo/internal/journal"
	storemodel "tradevo/internal/store/model"
)

type tradeModel = storemodel.TradeModel
type accountModel = storemodel.AccountModel
type goalModel = storemodel.GoalModel

// Single-row tables keep a fixed primary key.
const settingsRowID = 1

type GormStore struct {
	db *gorm.DB
}

var _ journal.Store = (*GormStore)(nil)

// NewGormStore opens (creating if needed) the SQLite journal database.
func NewGormStore(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&tradeModel{}, &accountModel{}, &goalModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: allow a little parallelism for concurrent HTTP reads
	// while keeping lock contention low.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --------------------------- Trades ------------------------------------

func (s *GormStore) ListTrades(ctx context.Context) ([]journal.TradeRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	var models []tradeModel
	if err := s.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]journal.TradeRecord, 0, len(models))
	for _, m := range models {
		out = append(out, tradeModelToRecord(m))
	}
	return out, nil
}

func (s *GormStore) GetTrade(ctx context.Context, id string) (journal.TradeRecord, bool, error) {
	if s == nil || s.db == nil {
		return journal.TradeRecord{}, false, fmt.Errorf("gorm store not initialized")
	}
	var m tradeModel
	if err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journal.TradeRecord{}, false, nil
		}
		return journal.TradeRecord{}, false, err
	}
	return tradeModelToRecord(m), true, nil
}

func (s *GormStore) UpsertTrade(ctx context.Context, rec journal.TradeRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("trade id is required")
	}
	m := newTradeModel(rec)
	cols := []string{
		"timestamp", "entry_time", "exit_time", "symbol", "asset_class", "direction",
		"lots", "entry", "sl", "tp", "rr", "pips", "profit",
		"rating", "session", "tags", "mistakes", "emotions",
		"analysis", "pre_market_analysis", "post_market_analysis",
		"lessons_learned", "would_do_differently", "screenshot", "pre_checklist",
		"updated_at",
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(&m).Error
}

func (s *GormStore) DeleteTrade(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	return s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Delete(&tradeModel{}).Error
}

// --------------------------- Settings ----------------------------------

func (s *GormStore) Account(ctx context.Context) (journal.AccountState, bool, error) {
	if s == nil || s.db == nil {
		return journal.AccountState{}, false, fmt.Errorf("gorm store not initialized")
	}
	var m accountModel
	if err := s.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journal.AccountState{}, false, nil
		}
		return journal.AccountState{}, false, err
	}
	return journal.AccountState{InitialBalance: m.InitialBalance}, true, nil
}

func (s *GormStore) SetAccount(ctx context.Context, state journal.AccountState) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	m := accountModel{
		ID:             settingsRowID,
		InitialBalance: state.InitialBalance,
		UpdatedAtUnix:  time.Now().UnixMilli(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"initial_balance", "updated_at"}),
		}).
		Create(&m).Error
}

func (s *GormStore) Goals(ctx context.Context) (journal.GoalConfig, bool, error) {
	if s == nil || s.db == nil {
		return journal.GoalConfig{}, false, fmt.Errorf("gorm store not initialized")
	}
	var m goalModel
	if err := s.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journal.GoalConfig{}, false, nil
		}
		return journal.GoalConfig{}, false, err
	}
	return journal.GoalConfig{Daily: m.Daily, Weekly: m.Weekly, Monthly: m.Monthly}, true, nil
}

func (s *GormStore) SetGoals(ctx context.Context, goals journal.GoalConfig) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	m := goalModel{
		ID:            settingsRowID,
		Daily:         goals.Daily,
		Weekly:        goals.Weekly,
		Monthly:       goals.Monthly,
		UpdatedAtUnix: time.Now().UnixMilli(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily", "weekly", "monthly", "updated_at"}),
		}).
		Create(&m).Error
}

// --------------------------- Model Helpers ------------------------------

func newTradeModel(rec journal.TradeRecord) tradeModel {
	now := time.Now().UnixMilli()
	return tradeModel{
		ID:                 strings.TrimSpace(rec.ID),
		Timestamp:          timeToMillis(rec.Timestamp),
		EntryTime:          timeToMillis(rec.EntryTime),
		ExitTime:           timeToMillis(rec.ExitTime),
		Symbol:             strings.ToUpper(strings.TrimSpace(rec.Symbol)),
		AssetClass:         string(rec.AssetClass),
		Direction:          string(rec.Type),
		Lots:               rec.Lots,
		Entry:              rec.Entry,
		SL:                 rec.SL,
		TP:                 rec.TP,
		RR:                 rec.RR,
		Pips:               rec.Pips,
		Profit:             rec.Profit,
		Rating:             string(rec.Rating),
		Session:            string(rec.Session),
		Tags:               labelsToJSON(rec.Tags),
		Mistakes:           labelsToJSON(rec.Mistakes),
		Emotions:           labelsToJSON(rec.Emotions),
		Analysis:           rec.Analysis,
		PreMarketAnalysis:  rec.PreMarketAnalysis,
		PostMarketAnalysis: rec.PostMarketAnalysis,
		LessonsLearned:     rec.LessonsLearned,
		WouldDoDifferently: rec.WouldDoDifferently,
		Screenshot:         rec.Screenshot,
		PreChecklist:       rec.PreChecklist,
		CreatedAtUnix:      now,
		UpdatedAtUnix:      now,
	}
}

func tradeModelToRecord(m tradeModel) journal.TradeRecord {
	return journal.TradeRecord{
		ID:                 m.ID,
		Timestamp:          millisToTime(m.Timestamp),
		EntryTime:          millisToTime(m.EntryTime),
		ExitTime:           millisToTime(m.ExitTime),
		Symbol:             m.Symbol,
		AssetClass:         journal.ParseAssetClass(m.AssetClass),
		Type:               journal.ParseDirection(m.Direction),
		Lots:               m.Lots,
		Entry:              m.Entry,
		SL:                 m.SL,
		TP:                 m.TP,
		RR:                 m.RR,
		Pips:               m.Pips,
		Profit:             m.Profit,
		Rating:             journal.ParseRating(m.Rating),
		Session:            journal.NormalizeSession(m.Session),
		Tags:               jsonToLabels(m.Tags),
		Mistakes:           jsonToLabels(m.Mistakes),
		Emotions:           jsonToLabels(m.Emotions),
		Analysis:           m.Analysis,
		PreMarketAnalysis:  m.PreMarketAnalysis,
		PostMarketAnalysis: m.PostMarketAnalysis,
		LessonsLearned:     m.LessonsLearned,
		WouldDoDifferently: m.WouldDoDifferently,
		Screenshot:         m.Screenshot,
		PreChecklist:       m.PreChecklist,
	}
}

func labelsToJSON(labels []string) datatypes.JSON {
	if len(labels) == 0 {
		return datatypes.JSON([]byte("[]"))
	}
	raw, err := json.Marshal(labels)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

func jsonToLabels(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func timeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func millisToTime(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(v)
}
