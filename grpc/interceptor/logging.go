package interceptor

import (
	"context"
	"errors"
	"io"
	"path"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/kbukum/vetta/logger"
)

// StreamClientLoggingInterceptor returns a stream client interceptor that logs
// stream establishment and, once the stream ends, the number of messages
// received, the total duration and the final status.
func StreamClientLoggingInterceptor(log *logger.Logger) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		start := time.Now()
		fields := map[string]interface{}{
			"service":            path.Dir(method)[1:],
			"method":             path.Base(method),
			logger.FieldEndpoint: cc.Target(),
		}

		log.Debug("gRPC stream started", fields)

		stream, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			st := status.Convert(err)
			log.Error("gRPC stream failed", merge(fields, map[string]interface{}{
				"status":             st.Code().String(),
				logger.FieldError:    st.Message(),
				logger.FieldDuration: time.Since(start).Milliseconds(),
			}))
			return nil, err
		}
		return &loggedStream{ClientStream: stream, log: log, fields: fields, start: start}, nil
	}
}

// loggedStream counts received messages and logs once when the stream ends.
type loggedStream struct {
	grpc.ClientStream
	log    *logger.Logger
	fields map[string]interface{}
	start  time.Time

	received int
	once     sync.Once
}

func (s *loggedStream) RecvMsg(m interface{}) error {
	err := s.ClientStream.RecvMsg(m)
	if err == nil {
		s.received++
		return nil
	}
	s.once.Do(func() {
		end := map[string]interface{}{
			"received":           s.received,
			logger.FieldDuration: time.Since(s.start).Milliseconds(),
		}
		if errors.Is(err, io.EOF) {
			end["status"] = "OK"
			s.log.Debug("gRPC stream completed", merge(s.fields, end))
			return
		}
		st := status.Convert(err)
		end["status"] = st.Code().String()
		end[logger.FieldError] = st.Message()
		s.log.Warn("gRPC stream ended with error", merge(s.fields, end))
	})
	return err
}

func merge(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
