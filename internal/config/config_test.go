package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/stockpile/internal/quickstack"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.PublicKeyRefreshHrs)
	assert.Equal(t, "blacklist:", cfg.Redis.BlacklistPrefix)
	assert.Equal(t, "quickstack:lock:", cfg.Redis.LockPrefix)
	assert.Equal(t, 100, cfg.Session.MaxPlayers)
	assert.Equal(t, 36, cfg.Session.InventorySize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3, cfg.QuickStack.Range)
	assert.Equal(t, 2*time.Second, cfg.QuickStack.LockTTL)
	assert.Equal(t, quickstack.DefaultConfig(), cfg.QuickStack.Eligibility())
	assert.Equal(t, quickstack.PickHighestFirst, cfg.QuickStack.PickOrder())
}

func TestParseQuickStackSection(t *testing.T) {
	cfg, err := Parse([]byte(`
quick_stack:
  range: 5
  lock_ttl: 500ms
  pick_lowest_first: true
  consider_silos: false
  consider_chests: true
  exclude_kinds: [warehouse]
`))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.QuickStack.Range)
	assert.Equal(t, 500*time.Millisecond, cfg.QuickStack.LockTTL)
	assert.Equal(t, quickstack.PickLowestFirst, cfg.QuickStack.PickOrder())

	elig := cfg.QuickStack.Eligibility()
	assert.True(t, elig.ConsiderChests)
	assert.False(t, elig.ConsiderSilos)
	assert.True(t, elig.ConsiderColdStorage, "unset switches stay on")
	assert.True(t, elig.ConsiderCargoHolds)
	assert.Equal(t, []inventory.Kind{inventory.KindWarehouse}, elig.ExcludeKinds)
}

func TestParseRejectsNegativeRange(t *testing.T) {
	_, err := Parse([]byte("quick_stack:\n  range: -1\n"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	reg, err := cfg.Registry()
	require.NoError(t, err)
	_, ok := reg.Lookup("smartmatter")
	assert.True(t, ok, "empty items fall back to the sample catalog")

	cfg, err = Parse([]byte(`
items:
  - id: wood
    max_stack: 999
  - id: plank
    category: material
    max_stack: 50
`))
	require.NoError(t, err)
	reg, err = cfg.Registry()
	require.NoError(t, err)
	limit, ok := reg.StackMaxFor("plank")
	require.True(t, ok)
	assert.Equal(t, 50, limit)
	_, ok = reg.Lookup("smartmatter")
	assert.False(t, ok)

	cfg.Items = append(cfg.Items, inventory.ItemDetails{ID: "bad", MaxStack: -1})
	_, err = cfg.Registry()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
