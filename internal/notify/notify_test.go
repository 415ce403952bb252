package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
)

var errTestSink = errors.New("test sink failure")

// recordingNotifier stores every message and optionally fails.
type recordingNotifier struct {
	messages []string
	err      error
}

// Notify records message and returns the configured error.
func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	r.messages = append(r.messages, message)

	return r.err
}

// TestWebhook_PostsContent verifies the JSON body and content type.
func TestWebhook_PostsContent(t *testing.T) {
	t.Parallel()

	var got webhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, NewWebhook(server.URL, time.Second).Notify(context.Background(), "Sleep detected."))
	require.Equal(t, "Sleep detected.", got.Content)
}

// TestWebhook_Rejected reports non-2xx responses.
func TestWebhook_Rejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := NewWebhook(server.URL, 0).Notify(context.Background(), "x")
	require.ErrorIs(t, err, errWebhookStatus)
}

// TestWebhook_Unreachable reports transport failures.
func TestWebhook_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	require.Error(t, NewWebhook(url, time.Second).Notify(context.Background(), "x"))
}

// TestFanout_StopsAtFirstFailure checks ordering and abort semantics.
func TestFanout_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	first := new(recordingNotifier)
	failing := &recordingNotifier{err: errTestSink}
	last := new(recordingNotifier)

	err := Fanout{first, nil, failing, last}.Notify(context.Background(), "m")
	require.ErrorIs(t, err, errTestSink)
	require.Equal(t, []string{"m"}, first.messages)
	require.Equal(t, []string{"m"}, failing.messages)
	require.Empty(t, last.messages)

	require.NoError(t, Fanout{first, last}.Notify(context.Background(), "n"))
	require.Equal(t, []string{"n"}, last.messages)
}

// fakeToken is a completed paho token.
type fakeToken struct {
	done    chan struct{}
	err     error
	timeout bool
}

func newFakeToken(err error, timeout bool) *fakeToken {
	done := make(chan struct{})
	if !timeout {
		close(done)
	}

	return &fakeToken{done: done, err: err, timeout: timeout}
}

func (f *fakeToken) Wait() bool { return !f.timeout }

func (f *fakeToken) WaitTimeout(time.Duration) bool { return !f.timeout }

func (f *fakeToken) Done() <-chan struct{} { return f.done }

func (f *fakeToken) Error() error { return f.err }

// fakePublisher records publishes.
type fakePublisher struct {
	topic        string
	qos          byte
	payload      []byte
	token        *fakeToken
	disconnected bool
}

func (f *fakePublisher) Publish(topic string, qos byte, _ bool, payload any) paho.Token {
	f.topic = topic
	f.qos = qos
	f.payload, _ = payload.([]byte)

	return f.token
}

func (f *fakePublisher) Disconnect(uint) { f.disconnected = true }

// TestMQTT_PublishesEvent verifies topic, QoS and payload.
func TestMQTT_PublishesEvent(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{token: newFakeToken(nil, false)}
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	sink := newMQTT(pub, "home/sleep", func() time.Time { return now })

	require.NoError(t, sink.Notify(context.Background(), "Sleep detected."))
	require.Equal(t, "home/sleep", pub.topic)
	require.Equal(t, byte(1), pub.qos)
	require.JSONEq(t, `{"timestamp":"2024-01-01T10:00:00Z","event":"SLEEP_DETECTED","message":"Sleep detected."}`, string(pub.payload))

	require.NoError(t, sink.Close())
	require.True(t, pub.disconnected)
}

// TestMQTT_Failures surfaces publish errors and timeouts.
func TestMQTT_Failures(t *testing.T) {
	t.Parallel()

	sink := newMQTT(&fakePublisher{token: newFakeToken(errTestSink, false)}, "t", time.Now)
	require.ErrorIs(t, sink.Notify(context.Background(), "m"), errTestSink)

	sink = newMQTT(&fakePublisher{token: newFakeToken(nil, true)}, "t", time.Now)
	require.ErrorIs(t, sink.Notify(context.Background(), "m"), errPublishTimeout)
}
