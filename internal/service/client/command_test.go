package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

// TestFormatStatus prints fields sorted by key.
func TestFormatStatus(t *testing.T) {
	t.Parallel()

	status, err := structpb.NewStruct(map[string]any{
		"override_active":   true,
		"detections":        3,
		"allow_sleep_until": "2024-01-01T10:30:00Z",
	})
	require.NoError(t, err)

	require.Equal(t,
		"allow_sleep_until: 2024-01-01T10:30:00Z\ndetections: 3\noverride_active: true",
		formatStatus(status),
	)
	require.Equal(t, "<no status>", formatStatus(nil))
}

// TestRun_MissingConfig fails before dialing.
func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		Command:    CommandStatus,
	})
	require.Error(t, err)
}
