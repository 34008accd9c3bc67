package speechpb

import (
	"context"

	"google.golang.org/grpc"
)

const (
	// ServiceName is the fully qualified service name.
	ServiceName = "speech.SpeechToText"
	// TranscribeMethod is the full method name of SpeechToText.Transcribe.
	TranscribeMethod = "/speech.SpeechToText/Transcribe"
)

// SpeechToTextClient is the client API for the SpeechToText service.
type SpeechToTextClient interface {
	// Transcribe sends in and returns the stream of transcript chunks.
	Transcribe(ctx context.Context, in *TranscribeRequest, opts ...grpc.CallOption) (TranscribeClient, error)
}

// TranscribeClient receives the chunks of one Transcribe call.
type TranscribeClient interface {
	// Recv returns the next chunk, io.EOF at the end of the stream, or the
	// status error reported by the service.
	Recv() (*TranscriptChunk, error)
	grpc.ClientStream
}

type speechToTextClient struct {
	cc grpc.ClientConnInterface
}

// NewSpeechToTextClient returns a client bound to cc. Every call forces Codec.
func NewSpeechToTextClient(cc grpc.ClientConnInterface) SpeechToTextClient {
	return &speechToTextClient{cc: cc}
}

func (c *speechToTextClient) Transcribe(ctx context.Context, in *TranscribeRequest, opts ...grpc.CallOption) (TranscribeClient, error) {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], TranscribeMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &transcribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type transcribeClient struct {
	grpc.ClientStream
}

func (x *transcribeClient) Recv() (*TranscriptChunk, error) {
	m := new(TranscriptChunk)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// SpeechToTextServer is the server API for the SpeechToText service.
type SpeechToTextServer interface {
	Transcribe(*TranscribeRequest, TranscribeServer) error
}

// TranscribeServer sends the chunks of one Transcribe call.
type TranscribeServer interface {
	Send(*TranscriptChunk) error
	grpc.ServerStream
}

type transcribeServer struct {
	grpc.ServerStream
}

func (x *transcribeServer) Send(m *TranscriptChunk) error {
	return x.ServerStream.SendMsg(m)
}

func transcribeHandler(srv any, stream grpc.ServerStream) error {
	m := new(TranscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SpeechToTextServer).Transcribe(m, &transcribeServer{stream})
}

// ServiceDesc is the grpc.ServiceDesc for the SpeechToText service.
// Servers registering it must be created with grpc.ForceServerCodec(Codec{}).
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SpeechToTextServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Transcribe",
			Handler:       transcribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "speech.proto",
}

// RegisterSpeechToTextServer registers srv on s.
func RegisterSpeechToTextServer(s grpc.ServiceRegistrar, srv SpeechToTextServer) {
	s.RegisterService(&ServiceDesc, srv)
}
