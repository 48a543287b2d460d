package jsonld

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonld.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fallback_opening_hours: "Mo-Fr 08:00-20:00"
faq_label: ""
offers:
  - name: Winter Special
    price: "59.00"
    price_currency: CAD
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Mo-Fr 08:00-20:00", cfg.FallbackOpeningHours)
	assert.Equal(t, "", cfg.FAQLabel)
	require.Len(t, cfg.Offers, 1)
	assert.Equal(t, Offer{Name: "Winter Special", Price: "59.00", PriceCurrency: "CAD"}, cfg.Offers[0])
	// untouched keys keep their defaults
	assert.Equal(t, "Store services", cfg.CatalogName)
	assert.Equal(t, "5", cfg.BestRating)
	assert.Equal(t, "https://schema.org", cfg.Context)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
