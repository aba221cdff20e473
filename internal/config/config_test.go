package config_test

import (
	"testing"
	"time"

	"artstore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TAX_RATE_PERCENT", "")
	t.Setenv("GO_ENV", "")
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "16", cfg.TaxRatePercent.String())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}

func TestLoad_TaxRateOverride(t *testing.T) {
	t.Setenv("TAX_RATE_PERCENT", "8.5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8.5", cfg.TaxRatePercent.String())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad driver":        {"DB_DRIVER": "oracle"},
		"mysql without dsn": {"DB_DRIVER": "mysql", "MYSQL_DSN": ""},
		"bad tax":           {"TAX_RATE_PERCENT": "abc"},
		"negative tax":      {"TAX_RATE_PERCENT": "-1"},
		"bad port":          {"POSTGRES_PORT": "x"},
		"prod default jwt":  {"GO_ENV": "prod", "JWT_SECRET": ""},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
