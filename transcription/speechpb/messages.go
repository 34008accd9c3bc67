package speechpb

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// AudioSource is the oneof audio_source of TranscribeRequest.
// It is one of AudioPath, AudioData or AudioURI.
type AudioSource interface {
	isAudioSource()
}

// AudioPath references a file on the service host.
type AudioPath string

// AudioData carries the audio inline.
type AudioData []byte

// AudioURI references remote audio.
type AudioURI string

func (AudioPath) isAudioSource() {}
func (AudioData) isAudioSource() {}
func (AudioURI) isAudioSource()  {}

// TranscribeRequest starts one streaming transcription.
type TranscribeRequest struct {
	Source   AudioSource
	Language string
	Options  *TranscribeOptions
}

// TranscribeOptions tune a transcription.
type TranscribeOptions struct {
	Diarization   bool
	NumSpeakers   int32
	InitialPrompt string
}

// TranscriptChunk is one streamed transcript segment.
type TranscriptChunk struct {
	StartTime  float32
	EndTime    float32
	Text       string
	SpeakerID  string
	Confidence float32
	Words      []*Word
}

// Word is a word-level timing inside a chunk.
type Word struct {
	StartTime  float32
	EndTime    float32
	Text       string
	Confidence float32
}

// --- TranscribeRequest ---

// Marshal encodes the request in protobuf wire format.
func (m *TranscribeRequest) Marshal() ([]byte, error) {
	var b []byte
	switch src := m.Source.(type) {
	case nil:
	case AudioPath:
		b = appendString(b, 1, string(src), true)
	case AudioData:
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, src)
	case AudioURI:
		b = appendString(b, 3, string(src), true)
	default:
		return nil, fmt.Errorf("speechpb: unsupported audio source %T", src)
	}
	b = appendString(b, 4, m.Language, false)
	if m.Options != nil {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Options.marshal())
	}
	return b, nil
}

// Unmarshal decodes the request from protobuf wire format.
func (m *TranscribeRequest) Unmarshal(b []byte) error {
	*m = TranscribeRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.Source = AudioPath(v)
			return n, err
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			m.Source = AudioData(append([]byte(nil), v...))
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.Source = AudioURI(v)
			return n, err
		case num == 4 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.Language = v
			return n, err
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			if m.Options == nil {
				m.Options = &TranscribeOptions{}
			}
			return n, m.Options.unmarshal(v)
		}
		return skip(num, typ, b)
	})
}

// --- TranscribeOptions ---

func (m *TranscribeOptions) marshal() []byte {
	var b []byte
	if m.Diarization {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	if m.NumSpeakers != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		// int32 is sign-extended to 64 bits on the wire.
		b = protowire.AppendVarint(b, uint64(int64(m.NumSpeakers)))
	}
	return appendString(b, 3, m.InitialPrompt, false)
}

// Merges into m, as protobuf does for repeated occurrences of a message field.
func (m *TranscribeOptions) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Diarization = protowire.DecodeBool(v)
			return n, nil
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.NumSpeakers = int32(v)
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.InitialPrompt = v
			return n, err
		}
		return skip(num, typ, b)
	})
}

// --- TranscriptChunk ---

// Marshal encodes the chunk in protobuf wire format.
func (m *TranscriptChunk) Marshal() ([]byte, error) {
	var b []byte
	b = appendFloat(b, 1, m.StartTime)
	b = appendFloat(b, 2, m.EndTime)
	b = appendString(b, 3, m.Text, false)
	b = appendString(b, 4, m.SpeakerID, false)
	b = appendFloat(b, 5, m.Confidence)
	for _, w := range m.Words {
		if w == nil {
			continue
		}
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, w.marshal())
	}
	return b, nil
}

// Unmarshal decodes the chunk from protobuf wire format.
func (m *TranscriptChunk) Unmarshal(b []byte) error {
	*m = TranscriptChunk{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			return consumeFloat(b, &m.StartTime)
		case num == 2 && typ == protowire.Fixed32Type:
			return consumeFloat(b, &m.EndTime)
		case num == 3 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.Text = v
			return n, err
		case num == 4 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.SpeakerID = v
			return n, err
		case num == 5 && typ == protowire.Fixed32Type:
			return consumeFloat(b, &m.Confidence)
		case num == 6 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			w := &Word{}
			if err := w.unmarshal(v); err != nil {
				return n, err
			}
			m.Words = append(m.Words, w)
			return n, nil
		}
		return skip(num, typ, b)
	})
}

// --- Word ---

func (m *Word) marshal() []byte {
	var b []byte
	b = appendFloat(b, 1, m.StartTime)
	b = appendFloat(b, 2, m.EndTime)
	b = appendString(b, 3, m.Text, false)
	return appendFloat(b, 4, m.Confidence)
}

func (m *Word) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			return consumeFloat(b, &m.StartTime)
		case num == 2 && typ == protowire.Fixed32Type:
			return consumeFloat(b, &m.EndTime)
		case num == 3 && typ == protowire.BytesType:
			v, n, err := consumeString(num, b)
			m.Text = v
			return n, err
		case num == 4 && typ == protowire.Fixed32Type:
			return consumeFloat(b, &m.Confidence)
		}
		return skip(num, typ, b)
	})
}

// --- wire helpers ---

// appendString writes a string field; proto3 omits empty values unless the
// field is a oneof member.
func appendString(b []byte, num protowire.Number, v string, always bool) []byte {
	if v == "" && !always {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 && !math.Signbit(float64(v)) {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

func consumeFloat(b []byte, dst *float32) (int, error) {
	v, n := protowire.ConsumeFixed32(b)
	if n >= 0 {
		*dst = math.Float32frombits(v)
	}
	return n, nil
}

// ErrInvalidUTF8 reports a string field that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in string field")

// consumeString reads a proto3 string, which must be valid UTF-8.
func consumeString(num protowire.Number, b []byte) (string, int, error) {
	v, n := protowire.ConsumeString(b)
	if n >= 0 && !utf8.ValidString(v) {
		return "", n, fmt.Errorf("speechpb: field %d: %w", num, ErrInvalidUTF8)
	}
	return v, n, nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return protowire.ConsumeFieldValue(num, typ, b), nil
}

// walk iterates over the fields of b. field consumes one value and returns
// the number of bytes read, or a negative protowire error code.
func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("speechpb: %w", protowire.ParseError(n))
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("speechpb: field %d: %w", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}
