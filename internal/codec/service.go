package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region methods
// Full method names of the codec service. Messages are google.protobuf.Struct
// so neither side needs generated stubs.
const (
	ServiceName    = "neurosym.v1.Codec"
	GenerateMethod = "/neurosym.v1.Codec/Generate"
	EmbedMethod    = "/neurosym.v1.Codec/Embed"
)

// #endregion methods

// #region client-side
// Service is the client view of the codec service.
type Service interface {
	Generate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Embed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type serviceClient struct {
	cc grpc.ClientConnInterface
}

// NewServiceClient wraps a connection.
func NewServiceClient(cc grpc.ClientConnInterface) Service {
	return &serviceClient{cc: cc}
}

func (c *serviceClient) Generate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GenerateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serviceClient) Embed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EmbedMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion client-side

// #region server-side
// Server is implemented by codec backends, including in-process fakes.
type Server interface {
	Generate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Embed(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCodecServer attaches srv to a gRPC server.
func RegisterCodecServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: unaryHandler(GenerateMethod, Server.Generate)},
		{MethodName: "Embed", Handler: unaryHandler(EmbedMethod, Server.Embed)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "neurosym/v1/codec.proto",
}

type unaryMethod func(Server, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Server), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(Server), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// #endregion server-side
