package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func minimalConfig() map[string]any {
	return map[string]any{
		"database": map[string]any{
			"host":     "localhost",
			"user":     "gts",
			"password": "secret",
		},
		"pushover": map[string]any{
			"app_token": "app-token",
		},
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalConfig())

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://3ds.pokemon-gl.com", cfg.GTS.BaseURL)
	assert.Equal(t, "2", cfg.GTS.LanguageID)
	assert.Equal(t, "https://api.pushover.net", cfg.Pushover.BaseURL)
	assert.True(t, cfg.Pushover.ValidateDestination)
	assert.Equal(t, 15*time.Second, cfg.Email.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Reconciler.Interval)
	assert.Equal(t, 4, cfg.Reconciler.Workers)
	assert.True(t, cfg.Registration.NotifyOnRemoval)
	assert.Equal(t, 30*time.Second, cfg.Shutdown.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	doc := minimalConfig()
	doc["reconciler"] = map[string]any{
		"interval": "30s",
		"workers":  8,
	}
	doc["logging"] = map[string]any{
		"format": "console",
		"level":  "debug",
	}
	path := writeConfigFile(t, doc)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Reconciler.Interval)
	assert.Equal(t, 8, cfg.Reconciler.Workers)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingAppTokenFails(t *testing.T) {
	doc := minimalConfig()
	delete(doc, "pushover")
	path := writeConfigFile(t, doc)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AppToken")
}

func TestLoad_EmailHostRequiresFrom(t *testing.T) {
	doc := minimalConfig()
	doc["email"] = map[string]any{
		"host":     "smtp.example.com",
		"username": "notifier",
		"password": "secret",
	}
	path := writeConfigFile(t, doc)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email.from")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestGetConnectionString(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "gts",
		Password: "secret",
		Database: "gtsnotifier",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=gts password=secret dbname=gtsnotifier sslmode=disable",
		cfg.GetConnectionString())
}
