package wire

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Protocol timing and buffering constants.
const (
	HandshakeTimeout = 15 * time.Second
	PingPeriod       = 30 * time.Second
	PingGrace        = 15 * time.Second
	DefaultPort      = 5050

	ServerOutboundBuffer = 100
	ClientOutboundBuffer = 1
)

const (
	ServiceName         = "software.v1.Authority"
	HeartbeatMethodName = "Heartbeat"
	HeartbeatFullMethod = "/" + ServiceName + "/" + HeartbeatMethodName
	codecName           = "licguard-proto"
)

// wireMessage is implemented by every message type in this package; it is
// the contract the custom codec dispatches on instead of proto.Message.
type wireMessage interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// licCodec implements encoding.Codec against the hand-written Marshal /
// Unmarshal methods on this package's message types, standing in for the
// generated protobuf codec a protoc-gen-go-grpc build would normally
// register under the name "proto".
type licCodec struct{}

func (licCodec) Name() string { return codecName }

func (licCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("wire: cannot marshal %T", v)
	}
	return m.Marshal()
}

func (licCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("wire: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

func init() {
	encoding.RegisterCodec(licCodec{})
}

// ServerOption forces the hand-written wire codec for an Authority server.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(licCodec{})
}

// DialOption forces the hand-written wire codec for an Authority client.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(licCodec{}))
}

// AuthorityServer is implemented by the server-side Heartbeat handler.
type AuthorityServer interface {
	Heartbeat(grpc.BidiStreamingServer[ClientMessage, ServerMessage]) error
}

// AuthorityClient dials the Heartbeat bidirectional stream.
type AuthorityClient interface {
	Heartbeat(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ClientMessage, ServerMessage], error)
}

type authorityClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthorityClient builds an AuthorityClient over an existing connection.
func NewAuthorityClient(cc grpc.ClientConnInterface) AuthorityClient {
	return &authorityClient{cc: cc}
}

func (c *authorityClient) Heartbeat(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ClientMessage, ServerMessage], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], HeartbeatFullMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[ClientMessage, ServerMessage]{ClientStream: stream}, nil
}

func authorityHeartbeatHandler(srv any, stream grpc.ServerStream) error {
	return srv.(AuthorityServer).Heartbeat(&grpc.GenericServerStream[ClientMessage, ServerMessage]{ServerStream: stream})
}

// ServiceDesc is the grpc.ServiceDesc for the software.v1 Authority
// service, hand-written in place of protoc-gen-go-grpc output.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthorityServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    HeartbeatMethodName,
			Handler:       authorityHeartbeatHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "software/v1.proto",
}

// RegisterAuthorityServer registers srv with s under the Authority service.
func RegisterAuthorityServer(s grpc.ServiceRegistrar, srv AuthorityServer) {
	s.RegisterService(&ServiceDesc, srv)
}
