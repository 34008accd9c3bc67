package local

import (
	"context"

	"google.golang.org/grpc"

	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/grpc/client"
	"github.com/kbukum/vetta/logger"
	"github.com/kbukum/vetta/transcription/speechpb"
)

// GRPCDialer connects to the speech service over gRPC on a unix socket.
type GRPCDialer struct {
	Config  grpccfg.Config
	Log     *logger.Logger
	Options []grpc.DialOption
}

// Dial creates a lazily connecting client conn; nothing touches the socket
// until the first call.
func (d *GRPCDialer) Dial(_ context.Context, endpoint string) (Transport, error) {
	log := d.Log
	if log == nil {
		log = logger.Get("grpc")
	}
	conn, err := client.NewClient(endpoint, d.Config, log, d.Options...)
	if err != nil {
		return nil, err
	}
	return &grpcTransport{conn: conn, stt: speechpb.NewSpeechToTextClient(conn)}, nil
}

type grpcTransport struct {
	conn *grpc.ClientConn
	stt  speechpb.SpeechToTextClient
}

func (t *grpcTransport) Transcribe(ctx context.Context, req *speechpb.TranscribeRequest) (ChunkStream, error) {
	return t.stt.Transcribe(ctx, req)
}

func (t *grpcTransport) Close() error {
	return t.conn.Close()
}
