package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Zero(t, cfg.AdminTokenTTL)
	assert.Equal(t, StorageDocument, cfg.StorageDriver)
	assert.Equal(t, "data/orders.json", cfg.DataFile)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, "empty", cfg.ReadFailurePolicy)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORAGE_DRIVER", " SQLite ")
	t.Setenv("RATE_LIMIT_WINDOW", "15m")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("ADMIN_TOKEN_TTL", "12h")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("READ_FAILURE_POLICY", "fail")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, 12*time.Hour, cfg.AdminTokenTTL)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "fail", cfg.ReadFailurePolicy)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo"}, "STORAGE_DRIVER"},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}, "POSTGRES_DSN"},
		{"zero limit", map[string]string{"RATE_LIMIT_MAX": "0"}, "RATE_LIMIT_MAX"},
		{"bad policy", map[string]string{"READ_FAILURE_POLICY": "ignore"}, "READ_FAILURE_POLICY"},
		{"unparsable window", map[string]string{"RATE_LIMIT_WINDOW": "soon"}, "RATE_LIMIT_WINDOW"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := Config{StorageDriver: "x", ReadFailurePolicy: "empty"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
	assert.Contains(t, err.Error(), "RATE_LIMIT_WINDOW")
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestDurableWorkflowsRequireSharedStorage(t *testing.T) {
	cases := []struct {
		driver   string
		disabled bool
		want     bool
	}{
		{driver: StorageDocument, want: false},
		{driver: StorageMemory, want: false},
		{driver: StorageSQLite, want: true},
		{driver: StoragePostgres, want: true},
		{driver: StoragePostgres, disabled: true, want: false},
		{driver: StorageSQLite, disabled: true, want: false},
	}
	for _, tc := range cases {
		cfg := Config{StorageDriver: tc.driver, TemporalDisabled: tc.disabled}
		assert.Equal(t, tc.want, cfg.DurableWorkflows(), "driver=%s disabled=%v", tc.driver, tc.disabled)
	}
}

func TestLoadConfigDefaultsPersistInline(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.DurableWorkflows())

	t.Setenv("STORAGE_DRIVER", "sqlite")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.DurableWorkflows())
}
