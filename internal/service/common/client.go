//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/sleep-watch/internal/config"
	pb "github.com/oshokin/sleep-watch/internal/pb/v1"
)

// Client wraps the gRPC SleepService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the watcher.
	conn *grpc.ClientConn
	// api is the SleepService client stub.
	api pb.SleepServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent with every call when set.
	actor *Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the caller identity to every call.
func WithActor(actor *Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errDurationRequired is returned when AllowSleep gets an empty expression.
	errDurationRequired = errors.New("duration must be provided")
)

// Dial establishes a gRPC connection to the sleep watcher.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial sleep watcher: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         pb.NewSleepServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// AllowSleep opens an override window described by expr ("30m", "7h", "HH:MM")
// and returns the server acknowledgement.
func (c *Client) AllowSleep(ctx context.Context, expr string) (string, error) {
	if expr == "" {
		return "", errDurationRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.AllowSleep(callCtx, wrapperspb.String(expr))
	if err != nil {
		return "", fmt.Errorf("allow sleep: %w", err)
	}

	return resp.GetValue(), nil
}

// DisallowSleep removes the override window.
func (c *Client) DisallowSleep(ctx context.Context) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.DisallowSleep(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", fmt.Errorf("disallow sleep: %w", err)
	}

	return resp.GetValue(), nil
}

// Status reads the watcher state.
func (c *Client) Status(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetStatus(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, when
// known, travels as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != nil {
		ctx = metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, c.actor.String())
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
