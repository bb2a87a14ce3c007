package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  database_path: "register.db"
register:
  currency_symbol: "$"
  discount_rate: "0.10"
observability:
  logging:
    level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "register.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "$", cfg.Register.CurrencySymbol)
	assert.Equal(t, "0.10", cfg.Register.DiscountRate)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)

	// untouched sections keep defaults
	assert.True(t, cfg.Register.PersistDraft)
	assert.Equal(t, "console", cfg.Observability.Logging.Format)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_RejectsBadDiscountRate(t *testing.T) {
	path := writeConfig(t, `
register:
  discount_rate: "twenty percent"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discount_rate")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POS_DB_PATH", "test.db")
	t.Setenv("POS_PORT", "7070")
	t.Setenv("POS_DISCOUNT_RATE", "0.05")
	t.Setenv("POS_PERSIST_DRAFT", "false")
	t.Setenv("POS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg := LoadFromEnv()
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "0.05", cfg.Register.DiscountRate)
	assert.False(t, cfg.Register.PersistDraft)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("POS_DB_PATH", "")
	t.Setenv("POS_DISCOUNT_RATE", "")

	cfg := LoadFromEnv()
	assert.Equal(t, "pos_register.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "0.20", cfg.Register.DiscountRate)
	assert.Equal(t, "₱", cfg.Register.CurrencySymbol)
	require.NoError(t, cfg.Validate())
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	t.Setenv("POS_DB_PATH", "fallback.db")

	cfg := LoadOrEnv_WithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestEnvVarExpansion(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: "${TEST_DB_PATH}"
register:
  currency_symbol: "${TEST_SYMBOL}"
`)
	t.Setenv("TEST_DB_PATH", "expanded.db")
	t.Setenv("TEST_SYMBOL", "PHP ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "PHP ", cfg.Register.CurrencySymbol)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Storage.DatabasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestLoad_Catalog(t *testing.T) {
	path := writeConfig(t, `
register:
  discount_rate: "0"
catalog:
  - name: Rice
    category: Meals
    price: "50"
  - name: Halo-Halo
    category: Desserts
    price: "85.50"
    available: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0", cfg.Register.DiscountRate)
	require.Len(t, cfg.Catalog, 2)
	assert.Equal(t, "Rice", cfg.Catalog[0].Name)
	assert.True(t, cfg.Catalog[0].IsAvailable())
	assert.Equal(t, "85.50", cfg.Catalog[1].Price)
	assert.False(t, cfg.Catalog[1].IsAvailable())
}

func TestValidate_Catalog(t *testing.T) {
	tests := []struct {
		name    string
		product CatalogProduct
		wantErr string
	}{
		{name: "missing name", product: CatalogProduct{Name: " ", Price: "1"}, wantErr: "catalog[0].name"},
		{name: "bad price", product: CatalogProduct{Name: "Rice", Price: "fifty"}, wantErr: "catalog[0].price"},
		{name: "negative price", product: CatalogProduct{Name: "Rice", Price: "-1"}, wantErr: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Catalog = []CatalogProduct{tt.product}
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
