// Package pb holds the gRPC stubs of the sleepwatch.v1 API.
//
// The service is described in api/proto/v1/sleep_service.proto. Its messages
// are protobuf well-known types, so the stubs below are the only API code.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// SleepServiceName is the fully-qualified service name.
	SleepServiceName = "sleepwatch.v1.SleepService"

	SleepService_AllowSleep_FullMethodName    = "/sleepwatch.v1.SleepService/AllowSleep"    //nolint:revive,stylecheck // Mirrors generated names.
	SleepService_DisallowSleep_FullMethodName = "/sleepwatch.v1.SleepService/DisallowSleep" //nolint:revive,stylecheck // Mirrors generated names.
	SleepService_GetStatus_FullMethodName     = "/sleepwatch.v1.SleepService/GetStatus"     //nolint:revive,stylecheck // Mirrors generated names.
)

// SleepServiceClient is the client API for SleepService.
type SleepServiceClient interface {
	AllowSleep(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	DisallowSleep(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type sleepServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSleepServiceClient creates a client over cc.
//
//nolint:ireturn // Mirrors generated constructors.
func NewSleepServiceClient(cc grpc.ClientConnInterface) SleepServiceClient {
	return &sleepServiceClient{cc}
}

func (c *sleepServiceClient) AllowSleep(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, SleepService_AllowSleep_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *sleepServiceClient) DisallowSleep(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, SleepService_DisallowSleep_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *sleepServiceClient) GetStatus(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SleepService_GetStatus_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// SleepServiceServer is the server API for SleepService.
// Implementations must embed UnimplementedSleepServiceServer.
type SleepServiceServer interface {
	AllowSleep(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	DisallowSleep(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetStatus(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	mustEmbedUnimplementedSleepServiceServer()
}

// UnimplementedSleepServiceServer returns Unimplemented for every method.
type UnimplementedSleepServiceServer struct{}

// AllowSleep returns codes.Unimplemented.
func (UnimplementedSleepServiceServer) AllowSleep(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AllowSleep not implemented")
}

// DisallowSleep returns codes.Unimplemented.
func (UnimplementedSleepServiceServer) DisallowSleep(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DisallowSleep not implemented")
}

// GetStatus returns codes.Unimplemented.
func (UnimplementedSleepServiceServer) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}

func (UnimplementedSleepServiceServer) mustEmbedUnimplementedSleepServiceServer() {}

// RegisterSleepServiceServer registers srv on s.
func RegisterSleepServiceServer(s grpc.ServiceRegistrar, srv SleepServiceServer) {
	s.RegisterService(&SleepService_ServiceDesc, srv)
}

func _SleepService_AllowSleep_Handler( //nolint:revive // Mirrors generated names.
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SleepServiceServer).AllowSleep(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SleepService_AllowSleep_FullMethodName,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SleepServiceServer).AllowSleep(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

func _SleepService_DisallowSleep_Handler( //nolint:revive // Mirrors generated names.
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SleepServiceServer).DisallowSleep(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SleepService_DisallowSleep_FullMethodName,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SleepServiceServer).DisallowSleep(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func _SleepService_GetStatus_Handler( //nolint:revive // Mirrors generated names.
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SleepServiceServer).GetStatus(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SleepService_GetStatus_FullMethodName,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SleepServiceServer).GetStatus(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

// SleepService_ServiceDesc is the grpc.ServiceDesc for SleepService.
//
//nolint:gochecknoglobals,revive,stylecheck // Mirrors generated descriptors.
var SleepService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SleepServiceName,
	HandlerType: (*SleepServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AllowSleep",
			Handler:    _SleepService_AllowSleep_Handler,
		},
		{
			MethodName: "DisallowSleep",
			Handler:    _SleepService_DisallowSleep_Handler,
		},
		{
			MethodName: "GetStatus",
			Handler:    _SleepService_GetStatus_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/proto/v1/sleep_service.proto",
}
