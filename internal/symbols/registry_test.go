package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevo/internal/journal"
)

const testCatalog = `asset_pairs:
  FOREX: [EURUSD, GBPUSD, USDJPY]
  CRYPTO: [BTCUSDT, ETHUSDT]
  FUTURES: [NAS100, US30]
  COMMODITIES: [XAUUSD, XAGUSD]
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRegistryLoadsCatalog(t *testing.T) {
	reg, err := NewRegistry(writeCatalog(t, testCatalog))
	require.NoError(t, err)

	snap := reg.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, []string{"EURUSD", "GBPUSD", "USDJPY"}, snap.Pairs[journal.AssetForex])
	assert.Equal(t, []string{"XAGUSD", "XAUUSD"}, snap.Pairs[journal.AssetCommodities])
}

func TestRegistryNormalizesEntries(t *testing.T) {
	reg, err := NewRegistry(writeCatalog(t, `asset_pairs:
  CRYPTO: [" btcusdt ", BTCUSDT, "", ethusdt]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, reg.Pairs(journal.AssetCrypto))
}

func TestRegistryClassFor(t *testing.T) {
	reg, err := NewRegistry(writeCatalog(t, testCatalog))
	require.NoError(t, err)

	assert.Equal(t, journal.AssetCommodities, reg.ClassFor("xauusd"))
	assert.Equal(t, journal.AssetCrypto, reg.ClassFor("BTCUSDT"))
	assert.Equal(t, journal.AssetForex, reg.ClassFor("UNKNOWN"))
}

func TestRegistryRejectsUnknownKeys(t *testing.T) {
	_, err := NewRegistry(writeCatalog(t, `asset_pairs:
  FOREX: [EURUSD]
unknown_section: true
`))
	assert.Error(t, err)
}

func TestRegistryPairsReturnsCopy(t *testing.T) {
	reg, err := NewRegistry(writeCatalog(t, testCatalog))
	require.NoError(t, err)

	pairs := reg.Pairs(journal.AssetForex)
	pairs[0] = "MUTATED"
	assert.Equal(t, []string{"EURUSD", "GBPUSD", "USDJPY"}, reg.Pairs(journal.AssetForex))
}
