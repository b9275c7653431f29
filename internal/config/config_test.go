package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("RECEIPT_URL_EXPIRY", "1h")
	t.Setenv("DEHU_FETCH_WINDOW_DAYS", "")
	t.Setenv("DEHU_REMOTE_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 30, cfg.Sync.FetchWindowDays)
	assert.Equal(t, time.Hour, cfg.Sync.ReceiptURLExpiry)
	assert.Zero(t, cfg.Sync.RemoteCallTimeout)
}

func TestLoad_SyncOverrides(t *testing.T) {
	t.Setenv("DEHU_FETCH_WINDOW_DAYS", "7")
	t.Setenv("DEHU_REMOTE_TIMEOUT", "45s")
	t.Setenv("APP_TIMEZONE", "Europe/Madrid")

	cfg := Load()

	assert.Equal(t, 7, cfg.Sync.FetchWindowDays)
	assert.Equal(t, 45*time.Second, cfg.Sync.RemoteCallTimeout)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, (&AppConfig{}).Location())
	assert.Equal(t, time.Local, (&AppConfig{Timezone: "Local"}).Location())
	assert.Equal(t, time.Local, (&AppConfig{Timezone: "Not/AZone"}).Location())
	assert.Equal(t, "UTC", (&AppConfig{Timezone: "UTC"}).Location().String())
}

func TestEnvHelpers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{"string set", "value", func(t *testing.T) { assert.Equal(t, "value", getEnv("CFG_TEST", "default")) }},
		{"string unset", "", func(t *testing.T) { assert.Equal(t, "default", getEnv("CFG_TEST", "default")) }},
		{"bool true", "true", func(t *testing.T) { assert.True(t, getEnvBool("CFG_TEST", false)) }},
		{"bool false", "false", func(t *testing.T) { assert.False(t, getEnvBool("CFG_TEST", true)) }},
		{"bool invalid", "invalid", func(t *testing.T) { assert.True(t, getEnvBool("CFG_TEST", true)) }},
		{"int", "123", func(t *testing.T) { assert.Equal(t, 123, getEnvInt("CFG_TEST", 0)) }},
		{"int invalid", "invalid", func(t *testing.T) { assert.Equal(t, 10, getEnvInt("CFG_TEST", 10)) }},
		{"int unset", "", func(t *testing.T) { assert.Equal(t, 10, getEnvInt("CFG_TEST", 10)) }},
		{"duration", "90s", func(t *testing.T) { assert.Equal(t, 90*time.Second, getEnvDuration("CFG_TEST", 0)) }},
		{"duration invalid", "soon", func(t *testing.T) { assert.Equal(t, time.Minute, getEnvDuration("CFG_TEST", time.Minute)) }},
		{"duration unset", "", func(t *testing.T) { assert.Equal(t, time.Minute, getEnvDuration("CFG_TEST", time.Minute)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CFG_TEST", tt.value)
			tt.check(t)
		})
	}
}
