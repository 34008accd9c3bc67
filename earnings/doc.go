// Package earnings runs one earnings-call ingestion: it validates the media
// file, connects to a speech service, streams the transcript and tallies
// the result.
//
// A run is strictly sequential. Chunks are pulled one at a time through a
// pipeline.Pipeline and reported to a ProgressFunc as they arrive; nothing
// is persisted.
//
//	p := earnings.NewProcessor(provider, "/tmp/whisper.sock",
//	    earnings.WithProgress(func(pr earnings.Progress) { ... }),
//	)
//	sum, err := p.Process(ctx, job)
//	if stage, ok := earnings.StageOf(err); ok { ... }
package earnings
