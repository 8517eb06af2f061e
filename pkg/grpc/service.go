package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The device channel has a single method whose request and response are
// google.protobuf.Struct, so the descriptor is written out here instead of
// being generated from a .proto file.

const (
	DeviceAlertServiceName        = "glucova.v1.DeviceAlertService"
	DeviceAlertServiceCreateAlert = "/glucova.v1.DeviceAlertService/CreateAlert"
)

type DeviceAlertServiceServer interface {
	CreateAlert(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterDeviceAlertServiceServer(s grpc.ServiceRegistrar, srv DeviceAlertServiceServer) {
	s.RegisterService(&DeviceAlertService_ServiceDesc, srv)
}

func _DeviceAlertService_CreateAlert_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeviceAlertServiceServer).CreateAlert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DeviceAlertServiceCreateAlert,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DeviceAlertServiceServer).CreateAlert(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var DeviceAlertService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: DeviceAlertServiceName,
	HandlerType: (*DeviceAlertServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAlert",
			Handler:    _DeviceAlertService_CreateAlert_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "glucova/v1/device_alert.proto",
}

type DeviceAlertServiceClient interface {
	CreateAlert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type deviceAlertServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDeviceAlertServiceClient(cc grpc.ClientConnInterface) DeviceAlertServiceClient {
	return &deviceAlertServiceClient{cc}
}

func (c *deviceAlertServiceClient) CreateAlert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DeviceAlertServiceCreateAlert, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
