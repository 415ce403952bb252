package playback

import (
	"context"
	"errors"
	"mime"
	"net/url"
	"path"

	"github.com/vishen/go-chromecast/application"
)

// defaultContentType is used when the URL has no recognizable extension.
const defaultContentType = "audio/mpeg"

// errNotConnected is returned when a session call precedes Connect.
var errNotConnected = errors.New("cast session is not connected")

// castApp is the part of *application.Application used by Chromecast.
type castApp interface {
	Start(addr string, port int) error
	SetVolume(value float32) error
	Load(filenameOrURL string, startTime int, contentType string, transcode, detach, forceDetach bool) error
	Close(stopMedia bool) error
}

// Chromecast plays media through the cast v2 protocol.
type Chromecast struct {
	// port is the cast control port.
	port int
	// newApp creates a fresh cast application per session.
	newApp func() castApp
	// app is the current session, nil when disconnected.
	app castApp
}

// NewChromecast creates a player for devices listening on port.
func NewChromecast(port int) *Chromecast {
	return &Chromecast{
		port: port,
		newApp: func() castApp {
			return application.NewApplication(application.WithCacheDisabled(true))
		},
	}
}

// Connect implements Player.
func (c *Chromecast) Connect(_ context.Context, host string) error {
	app := c.newApp()
	if err := app.Start(host, c.port); err != nil {
		return err
	}

	c.app = app

	return nil
}

// SetVolume implements Player.
func (c *Chromecast) SetVolume(_ context.Context, level float64) error {
	if c.app == nil {
		return errNotConnected
	}

	return c.app.SetVolume(float32(level))
}

// Load implements Player. The call returns once the device accepted the media.
func (c *Chromecast) Load(_ context.Context, contentURL string) error {
	if c.app == nil {
		return errNotConnected
	}

	return c.app.Load(contentURL, 0, contentType(contentURL), false, true, false)
}

// Close implements Player without stopping the media.
func (c *Chromecast) Close() error {
	if c.app == nil {
		return nil
	}

	app := c.app
	c.app = nil

	return app.Close(false)
}

// contentType guesses the MIME type from the URL path extension.
func contentType(contentURL string) string {
	u, err := url.Parse(contentURL)
	if err != nil {
		return defaultContentType
	}

	if t := mime.TypeByExtension(path.Ext(u.Path)); t != "" {
		return t
	}

	return defaultContentType
}
