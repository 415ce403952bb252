package integration

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/sleep-watch/internal/config"
	"github.com/oshokin/sleep-watch/internal/service/common"
	"github.com/oshokin/sleep-watch/internal/service/override"
	"github.com/oshokin/sleep-watch/internal/service/watcher"
)

const testDeviceID = "device-1"

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// recordingPlayer is a concurrency-safe playback.Player.
type recordingPlayer struct {
	mu    sync.Mutex
	loads []string
}

func (p *recordingPlayer) Connect(context.Context, string) error { return nil }

func (p *recordingPlayer) SetVolume(context.Context, float64) error { return nil }

func (p *recordingPlayer) Close() error { return nil }

func (p *recordingPlayer) Load(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loads = append(p.loads, url)

	return nil
}

func (p *recordingPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.loads)
}

// webhookRecorder counts posted notifications.
type webhookRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (w *webhookRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rw.WriteHeader(http.StatusBadRequest)
		return
	}

	w.mu.Lock()
	w.messages = append(w.messages, payload.Content)
	w.mu.Unlock()

	rw.WriteHeader(http.StatusNoContent)
}

func (w *webhookRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.messages)
}

// newSensorServer serves a device list whose latest motion is a fixed instant.
func newSensorServer(t *testing.T, motionAt time.Time) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(rw).Encode([]map[string]any{
			{
				"id":   testDeviceID,
				"name": "bedroom",
				"newest_events": map[string]any{
					"mo": map[string]any{"val": 1, "created_at": motionAt.UTC().Format(time.RFC3339)},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

// startWatcher runs the watcher with an in-memory store until the test ends.
func startWatcher(t *testing.T, addr string, countThreshold int) (*recordingPlayer, *webhookRecorder) {
	t.Helper()

	sensorSrv := newSensorServer(t, time.Now().Add(-10*time.Second))

	hook := new(webhookRecorder)
	hookSrv := httptest.NewServer(hook)
	t.Cleanup(hookSrv.Close)

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(cfgPath, &config.Config{
		ServerAddress: addr,
		Timeout:       3 * time.Second,
		Sensor: config.Sensor{
			Token:    "test-token",
			DeviceID: testDeviceID,
			BaseURL:  sensorSrv.URL,
		},
		Store: config.Store{Kind: "memory"},
		Cast: config.Cast{
			Host:       "127.0.0.1",
			ContentURL: "http://media.local/alarm.mp3",
		},
		Notify: config.Notify{WebhookURL: hookSrv.URL},
		Detection: config.Detection{
			CountThreshold:    countThreshold,
			DurationThreshold: 15,
		},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	player := new(recordingPlayer)
	done := make(chan error, 1)

	go func() {
		done <- watcher.Run(ctx, &watcher.Options{
			ConfigPath:   cfgPath,
			PollInterval: time.Hour,
			Player:       player,
		})
	}()

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 5*time.Second, 20*time.Millisecond)

	return player, hook
}

// TestWatcher_FiresOnFirstCycle runs a real cycle against HTTP fakes.
func TestWatcher_FiresOnFirstCycle(t *testing.T) {
	t.Parallel()

	player, hook := startWatcher(t, reservePort(t), 1)

	require.Eventually(t, func() bool {
		return hook.count() == 1 && player.count() == 1
	}, 5*time.Second, 20*time.Millisecond)

	hook.mu.Lock()
	defer hook.mu.Unlock()

	require.Equal(t, config.DefaultMessage, hook.messages[0])
}

// TestGRPC_Roundtrip exercises allow, status and disallow through the real server.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	startWatcher(t, addr, 5)

	ctx := context.Background()

	c, err := common.Dial(ctx, addr,
		common.WithCallTimeout(3*time.Second),
		common.WithActor(&common.Actor{Hostname: "test-host", Username: "test-user"}),
	)
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	ack, err := c.AllowSleep(ctx, "30m")
	require.NoError(t, err)
	require.Contains(t, ack, "Sleep allowed until ")

	st, err := c.Status(ctx)
	require.NoError(t, err)
	require.True(t, st.GetFields()["override_active"].GetBoolValue())
	require.NotEmpty(t, st.GetFields()["allow_sleep_until"].GetStringValue())

	_, err = c.AllowSleep(ctx, "abc")
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	ack, err = c.DisallowSleep(ctx)
	require.NoError(t, err)
	require.Equal(t, override.AckDisallowed, ack)

	st, err = c.Status(ctx)
	require.NoError(t, err)
	require.False(t, st.GetFields()["override_active"].GetBoolValue())
	require.NotContains(t, st.GetFields(), "allow_sleep_until")
}
