// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 10, cfg.Cart.MaxLineQuantity)
	assert.Equal(t, 15*time.Minute, cfg.Redis.CartCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "order_events", cfg.RabbitMQ.OrderExchange)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CART_MAX_LINE_QUANTITY", "25")
	t.Setenv("CART_CACHE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 25, cfg.Cart.MaxLineQuantity)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CartCacheTTL)
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsZeroMaxLineQuantity(t *testing.T) {
	t.Setenv("CART_MAX_LINE_QUANTITY", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database = DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		Name:     "storefront",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDatabaseDSN()
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=storefront sslmode=disable", dsn)
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{}
	cfg.Redis.Host = "cache"
	cfg.Redis.Port = "6380"

	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}
