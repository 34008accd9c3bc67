// Package transcription defines the speech-to-text provider interface and
// the domain types for streamed transcripts.
//
// A Provider opens a Session against an endpoint; the Session issues a single
// streaming call and hands chunks out through a provider.Iterator, one per
// pull, stopping at the first error. Chunks already pulled stay valid.
//
// # Backends
//
//   - transcription/local: a speech service on a local unix socket, over gRPC
//
// # Usage
//
//	mgr := transcription.NewManager()
//	mgr.Register(local.ProviderName, local.Factory(log))
//	_ = mgr.InitializeDefault(local.ProviderName, nil)
//	p, _ := mgr.Get(ctx)
//	sess, err := p.Open(ctx, "/tmp/whisper.sock")
package transcription
