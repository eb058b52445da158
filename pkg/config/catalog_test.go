package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"standard", "high-res", "ultra"}, c.TierNames())
	assert.True(t, c.HasTier("ultra"))
	assert.False(t, c.HasTier("Ultra"))
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
	}{
		{name: "no tiers", mutate: func(c *Catalog) { c.Tiers = nil }},
		{name: "duplicate tier", mutate: func(c *Catalog) { c.Tiers = append(c.Tiers, Tier{Name: "ultra"}) }},
		{name: "empty tier name", mutate: func(c *Catalog) { c.Tiers[0].Name = "" }},
		{name: "mixed case tier", mutate: func(c *Catalog) { c.Tiers[0].Name = "Standard" }},
		{name: "padded tier", mutate: func(c *Catalog) { c.Tiers[0].Name = " standard" }},
		{name: "negative price", mutate: func(c *Catalog) { c.Tiers[1].PriceCents = -1 }},
		{name: "missing dimension", mutate: func(c *Catalog) { c.Dimension = "" }},
		{name: "bad rate timestamp", mutate: func(c *Catalog) { c.RateEffectiveAt = "2025-09-01" }},
		{name: "bad contract timestamp", mutate: func(c *Catalog) { c.ContractStartAt = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCatalog()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeCatalog(t, "event_type: Computing\nmetric_name: Computing\n")

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, "Computing", c.EventType)
		assert.Equal(t, "image_type", c.Dimension)
		assert.Equal(t, DefaultCatalog().Tiers, c.Tiers)
	})

	t.Run("tiers keep file order", func(t *testing.T) {
		path := writeCatalog(t, "tiers:\n  - {name: ultra, price_cents: 10}\n  - {name: standard, price_cents: 2}\n")

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"ultra", "standard"}, c.TierNames())
	})

	t.Run("tier names are lowercased", func(t *testing.T) {
		path := writeCatalog(t, "tiers:\n  - {name: Standard, price_cents: 2}\n  - {name: \" ULTRA \", price_cents: 10}\n")

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"standard", "ultra"}, c.TierNames())
		assert.True(t, c.HasTier("standard"))
	})

	t.Run("tiers differing only in case are duplicates", func(t *testing.T) {
		path := writeCatalog(t, "tiers:\n  - {name: ultra}\n  - {name: Ultra}\n")

		_, err := LoadCatalog(path)
		assert.ErrorContains(t, err, "duplicate tier")
	})

	t.Run("empty tier list is rejected", func(t *testing.T) {
		path := writeCatalog(t, "tiers: []\n")

		_, err := LoadCatalog(path)
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeCatalog(t, "tiers: [\n")

		_, err := LoadCatalog(path)
		assert.Error(t, err)
	})
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
