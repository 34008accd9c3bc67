package local

import (
	"math"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/transcription"
	"github.com/kbukum/vetta/transcription/speechpb"
)

// newRequest builds the wire request for audioPath. A speaker count outside
// the int32 wire range is rejected as an InvalidArgument service error.
func newRequest(audioPath string, opts transcription.Options) (*speechpb.TranscribeRequest, error) {
	if opts.NumSpeakers > math.MaxInt32 {
		st := status.Error(codes.InvalidArgument, "num_speakers out of range")
		return nil, grpccfg.FromStatus(st, serviceLabel).WithDetails(map[string]any{
			"num_speakers": opts.NumSpeakers,
			"max":          math.MaxInt32,
		})
	}
	return &speechpb.TranscribeRequest{
		Source:   speechpb.AudioPath(audioPath),
		Language: opts.Language,
		Options: &speechpb.TranscribeOptions{
			Diarization:   opts.Diarization,
			NumSpeakers:   int32(opts.NumSpeakers),
			InitialPrompt: opts.InitialPrompt,
		},
	}, nil
}

func toChunk(m *speechpb.TranscriptChunk) transcription.Chunk {
	c := transcription.Chunk{
		StartTime:  widen(m.StartTime),
		EndTime:    widen(m.EndTime),
		Text:       m.Text,
		SpeakerID:  m.SpeakerID,
		Confidence: widen(m.Confidence),
	}
	if len(m.Words) > 0 {
		c.Words = make([]transcription.Word, 0, len(m.Words))
		for _, w := range m.Words {
			if w == nil {
				continue
			}
			c.Words = append(c.Words, transcription.Word{
				StartTime:  widen(w.StartTime),
				EndTime:    widen(w.EndTime),
				Text:       w.Text,
				Confidence: widen(w.Confidence),
			})
		}
	}
	return c
}

// widen converts a wire float to the shortest float64 that prints the same,
// so 1.1 stays 1.1 instead of 1.100000023841858.
func widen(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}
