package diagram

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "feynman.v1.DiagramService"
	// EnumerateMethod is the full method name of Enumerate.
	EnumerateMethod = "/" + ServiceName + "/Enumerate"
	// RenderMethod is the full method name of Render.
	RenderMethod = "/" + ServiceName + "/Render"
)

// DiagramServiceServer is the server API for DiagramService.
type DiagramServiceServer interface {
	Enumerate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Render(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error)
}

// RegisterDiagramServiceServer registers srv on s.
func RegisterDiagramServiceServer(s grpc.ServiceRegistrar, srv DiagramServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc for DiagramService.
//
//nolint:gochecknoglobals // Registered with grpc.Server by reference.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiagramServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Enumerate",
			Handler:    enumerateHandler,
		},
		{
			MethodName: "Render",
			Handler:    renderHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "feynman/v1/diagram.proto",
}

func enumerateHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(DiagramServiceServer).Enumerate(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EnumerateMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiagramServiceServer).Enumerate(ctx, req.(*structpb.Struct)) //nolint:forcetypeassert // Same as above.
	}

	return interceptor(ctx, in, info, handler)
}

func renderHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(DiagramServiceServer).Render(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RenderMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiagramServiceServer).Render(ctx, req.(*structpb.Struct)) //nolint:forcetypeassert // Same as above.
	}

	return interceptor(ctx, in, info, handler)
}

// DiagramServiceClient is the client API for DiagramService.
type DiagramServiceClient interface {
	Enumerate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Render(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type diagramServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDiagramServiceClient returns a client bound to cc.
func NewDiagramServiceClient(cc grpc.ClientConnInterface) DiagramServiceClient {
	return &diagramServiceClient{cc: cc}
}

func (c *diagramServiceClient) Enumerate(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EnumerateMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *diagramServiceClient) Render(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, RenderMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
