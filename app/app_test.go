package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/config"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/health"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Discord: config.DiscordConfig{Token: "test-token-12345", DefaultLanguage: "ja"},
		Storage: config.StorageConfig{Backend: config.StorageMemory},
		Lounge:  config.LoungeConfig{BaseURL: "http://127.0.0.1:0", RatePerSecond: 5},
		Logging: config.LoggingConfig{Level: "INFO"},
		Features: config.FeatureFlags{
			MogiLookback: time.Hour,
		},
		HTTP: config.HTTPConfig{Port: "0"},
	}
}

func TestApplication_New(t *testing.T) {
	t.Run("Successful application creation", func(t *testing.T) {
		app, err := New(context.Background(), testConfig())
		require.NoError(t, err)
		require.NotNil(t, app)
		defer app.Stop()

		assert.NotNil(t, app.session)
		assert.NotNil(t, app.store)
		assert.NotNil(t, app.lounge)
		assert.NotNil(t, app.commandHandler)
		assert.NotNil(t, app.scheduler)
		assert.Nil(t, app.teams, "team registry stays disabled without a spreadsheet")
		assert.False(t, app.metricsClient.Enabled())
		assert.Len(t, app.recorders(), 2)
	})

	t.Run("Missing token should fail", func(t *testing.T) {
		cfg := testConfig()
		cfg.Discord.Token = ""

		app, err := New(context.Background(), cfg)
		require.Error(t, err)
		assert.Nil(t, app)

		var configErr *config.ConfigError
		assert.ErrorAs(t, err, &configErr)
		assert.Equal(t, "Discord.Token", configErr.Field)
	})

	t.Run("Debug level turns on discordgo logging", func(t *testing.T) {
		cfg := testConfig()
		cfg.Logging.Level = "DEBUG"

		app, err := New(context.Background(), cfg)
		require.NoError(t, err)
		defer app.Stop()

		assert.Equal(t, discordgo.LogInformational, app.session.LogLevel)
	})

	t.Run("Unknown storage backend should fail", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Backend = "dynamo"

		_, err := New(context.Background(), cfg)
		assert.ErrorContains(t, err, "STORAGE_BACKEND")
	})
}

func TestApplication_HealthRoutes(t *testing.T) {
	app, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer app.Stop()

	server := httptest.NewServer(app.healthServer.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status health.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, constants.HealthStatusHealthy, status.Status)
	assert.Equal(t, constants.HealthStatusHealthy, status.Checks["storage"])

	metrics, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func TestApplication_String(t *testing.T) {
	app, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer app.Stop()

	assert.Equal(t, "storage=memory sheets=false telemetry=false reset=false", app.String())
}

func TestApplication_StopWithoutStart(t *testing.T) {
	app, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	assert.NoError(t, app.Stop())
}
