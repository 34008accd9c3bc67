// Package speechpb holds the wire messages and gRPC service descriptor of
// the speech.SpeechToText service defined in proto/speech.proto.
//
// Messages are encoded by hand with protowire and are byte-compatible with
// protoc-generated code, so the service side may use any protobuf stack.
// Calls must use Codec, either through the client returned by
// NewSpeechToTextClient or with grpc.ForceServerCodec on the server side.
package speechpb
