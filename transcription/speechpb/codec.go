package speechpb

import "fmt"

// Message is implemented by every top-level wire message.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Codec is the gRPC codec for speechpb messages. Its name matches the stock
// protobuf codec so peers see content-type application/grpc+proto.
type Codec struct{}

// Name implements encoding.Codec.
func (Codec) Name() string { return "proto" }

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("speechpb: cannot marshal %T", v)
	}
	return m.Marshal()
}

// Unmarshal implements encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("speechpb: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}
