package publisher

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/powerplot/internal/config"
	"github.com/jgoulah/powerplot/pkg/models"
)

func TestNewValidatesHAConfig(t *testing.T) {
	_, err := New(config.MQTTConfig{}, config.HAConfig{Enabled: true})
	require.Error(t, err)

	_, err = New(config.MQTTConfig{}, config.HAConfig{Enabled: true, URL: "http://ha.local"})
	require.Error(t, err)

	_, err = New(config.MQTTConfig{}, config.HAConfig{Enabled: true, URL: "http://ha.local", Token: "tok"})
	require.Error(t, err)
}

func TestNewValidatesMQTTBroker(t *testing.T) {
	_, err := New(config.MQTTConfig{Enabled: true}, config.HAConfig{})
	require.Error(t, err)
}

func TestPublishHABackfill(t *testing.T) {
	var got HAPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pub, err := New(config.MQTTConfig{}, config.HAConfig{
		Enabled:  true,
		URL:      srv.URL,
		Token:    "secret",
		EntityID: "sensor.household_active_power",
	})
	require.NoError(t, err)
	defer pub.Close()

	power := 1.234
	reading := models.Reading{
		Timestamp:         time.Date(2007, 2, 1, 0, 0, 0, 0, time.UTC),
		GlobalActivePower: &power,
	}
	require.NoError(t, pub.Publish(reading))

	require.Equal(t, "Bearer secret", auth)
	require.Equal(t, "sensor.household_active_power", got.EntityID)
	require.Equal(t, "1.234", got.State)
	require.Equal(t, "2007-02-01T00:00:00Z", got.LastChanged)
}

func TestPublishRejectsMissingValue(t *testing.T) {
	pub, err := New(config.MQTTConfig{}, config.HAConfig{
		Enabled:  true,
		URL:      "http://ha.local",
		Token:    "tok",
		EntityID: "sensor.x",
	})
	require.NoError(t, err)

	err = pub.Publish(models.Reading{Timestamp: time.Now()})
	require.Error(t, err)
}

func TestPublishHAErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backfill failed", http.StatusBadGateway)
	}))
	defer srv.Close()

	pub, err := New(config.MQTTConfig{}, config.HAConfig{
		Enabled:  true,
		URL:      srv.URL,
		Token:    "tok",
		EntityID: "sensor.x",
	})
	require.NoError(t, err)

	power := 0.5
	err = pub.Publish(models.Reading{Timestamp: time.Now(), GlobalActivePower: &power})
	require.Error(t, err)
}
