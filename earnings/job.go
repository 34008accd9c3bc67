package earnings

import (
	"fmt"
	"time"

	"github.com/kbukum/vetta/media"
	"github.com/kbukum/vetta/transcription"
	"github.com/kbukum/vetta/util"
	"github.com/kbukum/vetta/validation"
)

// Year bounds accepted for a Period.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Period identifies the earnings call a file belongs to.
type Period struct {
	Ticker  string  `json:"ticker"`
	Year    int     `json:"year"`
	Quarter Quarter `json:"quarter"`
}

// String renders the period as "AAPL Q3 2025".
func (p Period) String() string {
	return fmt.Sprintf("%s %s %d", p.Ticker, p.Quarter, p.Year)
}

// Validate checks the ticker, year and quarter.
func (p Period) Validate() error {
	v := validation.New().
		Required("ticker", p.Ticker).
		Ticker("ticker", p.Ticker).
		Range("year", p.Year, MinYear, MaxYear).
		Custom(p.Quarter.Valid(), "quarter", "must be one of Q1, Q2, Q3, Q4")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Job is one pipeline run request.
type Job struct {
	File    string                `json:"file" validate:"required"`
	Period  Period                `json:"period"`
	Options transcription.Options `json:"options"`
}

// Validate checks the job fields. It does not touch the file system.
func (j Job) Validate() error {
	if err := validation.Validate(j); err != nil {
		return err
	}
	return j.Period.Validate()
}

// Progress is the running state of a stream after one more chunk.
type Progress struct {
	RunID    string `json:"run_id"`
	Segments int    `json:"segments"`
	Words    int    `json:"words"`
	// SpanStart and SpanEnd bound the audio covered so far, in seconds.
	SpanStart float64 `json:"span_start"`
	SpanEnd   float64 `json:"span_end"`
	// Speech is the summed duration of all chunks, in seconds.
	Speech     float64  `json:"speech"`
	OutOfOrder int      `json:"out_of_order"`
	Speakers   []string `json:"speakers,omitempty"`
	// Chunk is the chunk that produced this update.
	Chunk transcription.Chunk `json:"chunk"`
	// Reordered is set when Chunk started before its predecessor.
	Reordered bool `json:"reordered,omitempty"`
}

// advance folds c into p. Chunks are expected in non-decreasing start
// order; a chunk that starts earlier is counted, never dropped.
func advance(p Progress, c transcription.Chunk) Progress {
	p.Reordered = p.Segments > 0 && c.StartTime < p.Chunk.StartTime
	if p.Reordered {
		p.OutOfOrder++
	}
	if p.Segments == 0 || c.StartTime < p.SpanStart {
		p.SpanStart = c.StartTime
	}
	if p.Segments == 0 || c.EndTime > p.SpanEnd {
		p.SpanEnd = c.EndTime
	}
	p.Segments++
	p.Words += len(c.Words)
	p.Speech += c.Duration()
	p.Speakers = util.AppendUnique(p.Speakers, c.SpeakerID)
	p.Chunk = c
	return p
}

// Summary is the outcome of a run.
type Summary struct {
	RunID      string            `json:"run_id"`
	Period     Period            `json:"period"`
	Media      *media.Descriptor `json:"media,omitempty"`
	Segments   int               `json:"segments"`
	Words      int               `json:"words"`
	SpanStart  float64           `json:"span_start"`
	SpanEnd    float64           `json:"span_end"`
	Speech     float64           `json:"speech"`
	OutOfOrder int               `json:"out_of_order"`
	Speakers   []string          `json:"speakers,omitempty"`
	Elapsed    time.Duration     `json:"elapsed"`
}

func (s *Summary) apply(p Progress) {
	s.Segments = p.Segments
	s.Words = p.Words
	s.SpanStart = p.SpanStart
	s.SpanEnd = p.SpanEnd
	s.Speech = p.Speech
	s.OutOfOrder = p.OutOfOrder
	s.Speakers = p.Speakers
}
