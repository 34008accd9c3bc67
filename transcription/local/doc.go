// Package local implements transcription.Provider for a speech service
// listening on a unix domain socket.
//
// A Connector checks that the socket exists, then hands out a Client bound
// to a lazily dialled gRPC connection. Each Client serves one Transcribe
// call whose chunks are pulled one at a time:
//
//	cl, err := local.NewConnector(local.WithLogger(log)).Connect(ctx, "/tmp/whisper.sock")
//	if err != nil {
//		return err // ENDPOINT_NOT_FOUND, CONNECTION_FAILED
//	}
//	defer cl.Close()
//	it, err := cl.Transcribe(ctx, "call.mp3", transcription.Options{Language: "en"})
//	...
//	for {
//		chunk, ok, err := it.Next(ctx)
//		...
//	}
//
// The transport is swappable through Dialer; tests use in-memory fakes.
package local
