package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/sleep-watch/internal/config"
	"github.com/oshokin/sleep-watch/internal/logger"
	"github.com/oshokin/sleep-watch/internal/service/common"
)

// Command selects the override operation.
type Command int

const (
	// CommandAllow opens an override window.
	CommandAllow Command = iota
	// CommandDisallow removes the override window.
	CommandDisallow
	// CommandStatus prints the watcher state.
	CommandStatus
)

// String returns the subcommand name.
func (c Command) String() string {
	switch c {
	case CommandAllow:
		return "allow"
	case CommandDisallow:
		return "disallow"
	case CommandStatus:
		return "status"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Options configures one sleep-override invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Command is the operation to run.
	Command Command
	// Duration is the allow expression: "30m", "7h" or "HH:MM".
	Duration string
	// Out receives the acknowledgement; nil means stdout.
	Out io.Writer
}

// errUnknownCommand is returned for an unsupported Command value.
var errUnknownCommand = errors.New("unknown command")

// Run executes the requested command against the watcher.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sleep-override")

	cfg, err := config.LoadClient(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	if actor, err := common.DetectActor(); err == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	} else {
		logger.WarnKV(ctx, "Failed to detect actor", "error", err)
	}

	client, err := common.Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Sending command", "server_address", serverAddress, "command", opts.Command)

	var ack string

	switch opts.Command {
	case CommandAllow:
		ack, err = client.AllowSleep(ctx, opts.Duration)
	case CommandDisallow:
		ack, err = client.DisallowSleep(ctx)
	case CommandStatus:
		var status *structpb.Struct

		status, err = client.Status(ctx)
		ack = formatStatus(status)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, opts.Command)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, ack)

	return err
}

// formatStatus renders the status fields as sorted key: value lines.
func formatStatus(status *structpb.Struct) string {
	if status == nil {
		return "<no status>"
	}

	values := status.AsMap()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var result string

	for i, k := range keys {
		if i > 0 {
			result += "\n"
		}

		result += fmt.Sprintf("%s: %v", k, values[k])
	}

	return result
}
