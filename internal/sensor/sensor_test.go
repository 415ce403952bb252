package sensor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const devicesPayload = `[
  {"id": "other", "name": "Hallway", "newest_events": {"mo": {"val": 1, "created_at": "2024-01-01T09:00:00Z"}}},
  {"id": "bedroom", "name": "Bedroom", "newest_events": {"te": {"val": 21.5, "created_at": "2024-01-01T09:58:00Z"}, "mo": {"val": 1, "created_at": "2024-01-01T09:59:30Z"}}},
  {"id": "quiet", "name": "Study", "newest_events": {"te": {"val": 20, "created_at": "2024-01-01T09:00:00Z"}}}
]`

// newAPI starts a fake sensor API that checks the bearer token.
func newAPI(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/devices" || r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

// TestLatestMotion_Found returns the newest motion instant of the requested device.
func TestLatestMotion_Found(t *testing.T) {
	t.Parallel()

	api := newAPI(t, http.StatusOK, devicesPayload)
	client := NewClient(api.URL+"/", "secret", WithTimeout(time.Second))

	at, ok, err := client.LatestMotion(context.Background(), "bedroom")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, time.Date(2024, 1, 1, 9, 59, 30, 0, time.UTC).Equal(at))
}

// TestLatestMotion_NoMotion reports absence when the device never saw motion.
func TestLatestMotion_NoMotion(t *testing.T) {
	t.Parallel()

	api := newAPI(t, http.StatusOK, devicesPayload)
	client := NewClient(api.URL, "secret")

	_, ok, err := client.LatestMotion(context.Background(), "quiet")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestLatestMotion_DeviceNotFound fails with ErrDeviceNotFound for unknown ids.
func TestLatestMotion_DeviceNotFound(t *testing.T) {
	t.Parallel()

	api := newAPI(t, http.StatusOK, devicesPayload)
	client := NewClient(api.URL, "secret")

	_, _, err := client.LatestMotion(context.Background(), "garage")
	require.ErrorIs(t, err, ErrDeviceNotFound)
}

// TestLatestMotion_APIErrors surfaces HTTP and decoding failures.
func TestLatestMotion_APIErrors(t *testing.T) {
	t.Parallel()

	api := newAPI(t, http.StatusInternalServerError, "boom")
	_, _, err := NewClient(api.URL, "secret").LatestMotion(context.Background(), "bedroom")
	require.ErrorIs(t, err, errUnexpectedStatus)
	require.NotErrorIs(t, err, ErrDeviceNotFound)

	_, _, err = NewClient(api.URL, "wrong").LatestMotion(context.Background(), "bedroom")
	require.ErrorIs(t, err, errUnexpectedStatus)

	api = newAPI(t, http.StatusOK, "{")
	_, _, err = NewClient(api.URL, "secret").LatestMotion(context.Background(), "bedroom")
	require.Error(t, err)

	api = newAPI(t, http.StatusOK, `[{"id":"bedroom","newest_events":{"mo":{"created_at":"later"}}}]`)
	_, _, err = NewClient(api.URL, "secret").LatestMotion(context.Background(), "bedroom")
	require.Error(t, err)
}
