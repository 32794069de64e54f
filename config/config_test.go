package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("QR_SIZE_PX", "")
	t.Setenv("RESEND_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 200, cfg.QRCode.SizePx)
	assert.Empty(t, cfg.Email.APIKey)
	assert.Equal(t, "Event Registration Confirmation", cfg.Email.Subject)
}

func TestLoad_RejectsNonPositiveQRSize(t *testing.T) {
	t.Setenv("QR_SIZE_PX", "-5")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "5432", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.DSN())

	c.URL = "postgres://override"
	assert.Equal(t, "postgres://override", c.DSN())
}

func TestEmailConfig_From(t *testing.T) {
	assert.Equal(t, "Event Registration <a@b.c>", EmailConfig{FromName: "Event Registration", FromAddress: "a@b.c"}.From())
	assert.Equal(t, "a@b.c", EmailConfig{FromAddress: "a@b.c"}.From())
}

func TestStatsConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, StatsConfig{}.Location())
	assert.Equal(t, time.UTC, StatsConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "Europe/Berlin", StatsConfig{Timezone: "Europe/Berlin"}.Location().String())
}
