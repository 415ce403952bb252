package sleep

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/sleep-watch/internal/domain/sleep"
	pb "github.com/oshokin/sleep-watch/internal/pb/v1"
	"github.com/oshokin/sleep-watch/internal/service/override"
)

// Status keys returned by GetStatus.
const (
	StatusAllowSleepUntil = "allow_sleep_until"
	StatusOverrideActive  = "override_active"
	StatusDetections      = "detections"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	AllowSleep(ctx context.Context, expr string) (time.Time, string, error)
	DisallowSleep(ctx context.Context) (string, error)
	Status(ctx context.Context) (*override.Status, error)
}

// Server implements the SleepService gRPC API.
type Server struct {
	pb.UnimplementedSleepServiceServer

	// service executes the commands.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// AllowSleep parses the requested duration and opens an override window.
func (s *Server) AllowSleep(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil || req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "duration is required")
	}

	_, ack, err := s.service.AllowSleep(ctx, req.GetValue())
	switch {
	case err == nil:
		return wrapperspb.String(ack), nil
	case errors.Is(err, domain.ErrInvalidDurationFormat):
		return nil, status.Errorf(codes.InvalidArgument, "invalid duration %q, use 30m, 7h or HH:MM", req.GetValue())
	default:
		return nil, status.Error(codes.Internal, "unable to store override")
	}
}

// DisallowSleep removes the override window.
func (s *Server) DisallowSleep(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	ack, err := s.service.DisallowSleep(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to clear override")
	}

	return wrapperspb.String(ack), nil
}

// GetStatus returns a read-only view of the stored state.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.service.Status(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to read state")
	}

	return toProtoStatus(st), nil
}

// toProtoStatus converts an override.Status to a protobuf Struct.
func toProtoStatus(st *override.Status) *structpb.Struct {
	fields := map[string]*structpb.Value{
		StatusOverrideActive: structpb.NewBoolValue(st != nil && st.OverrideActive),
		StatusDetections:     structpb.NewNumberValue(0),
	}

	if st == nil {
		return &structpb.Struct{Fields: fields}
	}

	fields[StatusDetections] = structpb.NewNumberValue(float64(st.Detections))

	if !st.AllowSleepUntil.IsZero() {
		fields[StatusAllowSleepUntil] = structpb.NewStringValue(st.AllowSleepUntil.Format(time.RFC3339))
	}

	return &structpb.Struct{Fields: fields}
}
