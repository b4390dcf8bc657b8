package gormstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevo/internal/journal"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTrade(id string) journal.TradeRecord {
	return journal.TradeRecord{
		ID:         id,
		Timestamp:  time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Symbol:     "XAUUSD",
		AssetClass: journal.AssetCommodities,
		Type:       journal.DirectionLong,
		Lots:       "0.10",
		Entry:      "2000",
		SL:         "1990",
		TP:         "2030",
		RR:         "3.00",
		Pips:       "3000.0",
		Profit:     "300.00",
		Rating:     journal.RatingA,
		Session:    journal.SessionLondon,
		Tags:       []string{"breakout", "news"},
		Mistakes:   []string{"FOMO"},
		Analysis:   "clean setup",
	}
}

func TestTradeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := sampleTrade("TRD-0A1B2C3D")
	require.NoError(t, store.UpsertTrade(ctx, want))

	got, found, err := store.GetTrade(ctx, want.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Timestamp.UnixMilli(), got.Timestamp.UnixMilli())
	assert.Equal(t, want.Symbol, got.Symbol)
	assert.Equal(t, want.AssetClass, got.AssetClass)
	assert.Equal(t, want.RR, got.RR)
	assert.Equal(t, want.Profit, got.Profit)
	assert.Equal(t, want.Tags, got.Tags)
	assert.Equal(t, want.Mistakes, got.Mistakes)
	assert.Nil(t, got.Emotions)
}

func TestUpsertTradeOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleTrade("TRD-0A1B2C3D")
	require.NoError(t, store.UpsertTrade(ctx, rec))

	rec.Profit = "450.00"
	rec.Rating = journal.RatingAPlus
	require.NoError(t, store.UpsertTrade(ctx, rec))

	got, found, err := store.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "450.00", got.Profit)
	assert.Equal(t, journal.RatingAPlus, got.Rating)

	all, err := store.ListTrades(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListTradesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := sampleTrade("TRD-OLD")
	newer := sampleTrade("TRD-NEW")
	newer.Timestamp = older.Timestamp.AddDate(0, 0, 3)
	require.NoError(t, store.UpsertTrade(ctx, older))
	require.NoError(t, store.UpsertTrade(ctx, newer))

	all, err := store.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "TRD-NEW", all[0].ID)
	assert.Equal(t, "TRD-OLD", all[1].ID)
}

func TestDeleteTrade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleTrade("TRD-GONE")
	require.NoError(t, store.UpsertTrade(ctx, rec))
	require.NoError(t, store.DeleteTrade(ctx, rec.ID))

	_, found, err := store.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetTradeMissing(t *testing.T) {
	store := newTestStore(t)
	_, found, err := store.GetTrade(context.Background(), "TRD-NOPE")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAccountSingleRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, found, err := store.Account(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetAccount(ctx, journal.AccountState{InitialBalance: 10000}))
	require.NoError(t, store.SetAccount(ctx, journal.AccountState{InitialBalance: 25000}))

	state, found, err := store.Account(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(25000), state.InitialBalance)
}

func TestGoalsSingleRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, found, err := store.Goals(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetGoals(ctx, journal.GoalConfig{Daily: 100, Weekly: 500, Monthly: 2000}))
	require.NoError(t, store.SetGoals(ctx, journal.GoalConfig{Daily: 150, Weekly: 500, Monthly: 2000}))

	goals, found, err := store.Goals(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(150), goals.Daily)
}

func TestNilStoreGuards(t *testing.T) {
	var store *GormStore
	_, err := store.ListTrades(context.Background())
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
