package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, BackendModeScript, cfg.BackendMode)
	assert.Equal(t, FormModeModal, cfg.FormMode)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
}

func TestFromViperNormalizesModes(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BOOKING_FORM_MODE", "INLINE")
	v.Set("BACKEND_MODE", "carrier-pigeon")
	v.Set("BACKEND_TIMEOUT", "0s")
	v.Set("APP_ENV", "Production")

	cfg := fromViper(v)

	assert.Equal(t, FormModeInline, cfg.FormMode)
	assert.Equal(t, BackendModeScript, cfg.BackendMode)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.IsProduction())
}
