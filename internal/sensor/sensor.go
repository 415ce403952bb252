package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oshokin/sleep-watch/internal/domain/sleep"
)

// ErrDeviceNotFound is returned when the device id is not among the devices
// reported by the API.
var ErrDeviceNotFound = errors.New("device not found")

// errUnexpectedStatus is returned for non-2xx API responses.
var errUnexpectedStatus = errors.New("unexpected status")

// Source reports the newest motion instant of a device.
type Source interface {
	// LatestMotion returns the newest motion instant and false when the device
	// has never reported motion.
	LatestMotion(ctx context.Context, deviceID string) (time.Time, bool, error)
}

// Device is the subset of the API device object the watcher reads.
type Device struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	NewestEvents NewestEvents `json:"newest_events"`
}

// NewestEvents holds the newest sensor events keyed by sensor type.
type NewestEvents struct {
	Motion *Event `json:"mo,omitempty"`
}

// Event is a single sensor reading.
type Event struct {
	Value     float64 `json:"val"`
	CreatedAt string  `json:"created_at"`
}

// Client calls the sensor API.
type Client struct {
	// baseURL is the API root without a trailing slash.
	baseURL string
	// token is sent as a bearer token.
	token string
	// http performs the requests.
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.http = c
		}
	}
}

// WithTimeout sets the timeout of each API call.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.http.Timeout = timeout
		}
	}
}

// NewClient creates an API client.
func NewClient(baseURL, token string, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    new(http.Client),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Devices lists the devices visible to the token.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/1/devices", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build devices request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get devices: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:errcheck // Body is only used for the message.

		return nil, fmt.Errorf("get devices: %w: %s: %s", errUnexpectedStatus, resp.Status, strings.TrimSpace(string(body)))
	}

	var devices []Device
	if err = json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}

	return devices, nil
}

// LatestMotion implements Source.
func (c *Client) LatestMotion(ctx context.Context, deviceID string) (time.Time, bool, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return time.Time{}, false, err
	}

	for i := range devices {
		if devices[i].ID != deviceID {
			continue
		}

		motion := devices[i].NewestEvents.Motion
		if motion == nil || motion.CreatedAt == "" {
			return time.Time{}, false, nil
		}

		at, err := sleep.ParseInstant(motion.CreatedAt)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("device %s: %w", deviceID, err)
		}

		return at, true, nil
	}

	return time.Time{}, false, fmt.Errorf("%w: %q", ErrDeviceNotFound, deviceID)
}
