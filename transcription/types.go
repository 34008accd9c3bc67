package transcription

// Options are the per-request knobs sent to the speech service.
type Options struct {
	// Language is a BCP-47 style tag such as "en". Empty lets the service detect it.
	Language string `json:"language,omitempty" validate:"omitempty,max=16"`
	// Diarization asks the service to attribute chunks to speakers.
	Diarization bool `json:"diarization"`
	// NumSpeakers is the expected speaker count. Values above the wire
	// integer range are rejected by the client, never truncated.
	NumSpeakers uint32 `json:"num_speakers"`
	// InitialPrompt primes the model with domain vocabulary.
	InitialPrompt string `json:"initial_prompt,omitempty" validate:"omitempty,max=4096"`
}

// Chunk is one incremental unit of a streamed transcript.
type Chunk struct {
	// StartTime and EndTime are offsets into the audio in seconds.
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
	// SpeakerID is empty when diarization is disabled.
	SpeakerID string `json:"speaker_id,omitempty"`
	// Confidence is passed through from the service; nominally in [0, 1].
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// Duration returns the time window the chunk covers. Malformed chunks with
// EndTime before StartTime report zero.
func (c Chunk) Duration() float64 {
	if c.EndTime < c.StartTime {
		return 0
	}
	return c.EndTime - c.StartTime
}

// Word is a word-level timing inside a Chunk.
type Word struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
