package speechpb

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestTranscribeRequest_WireLayout(t *testing.T) {
	req := &TranscribeRequest{
		Source:   AudioPath("a.mp3"),
		Language: "en",
		Options:  &TranscribeOptions{Diarization: true, NumSpeakers: 2},
	}
	got, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{
		0x0a, 0x05, 'a', '.', 'm', 'p', '3', // audio_path = 1
		0x22, 0x02, 'e', 'n', // language = 4
		0x2a, 0x04, 0x08, 0x01, 0x10, 0x02, // options = 5
	}
	if !bytes.Equal(got, want) {
		t.Errorf("wire bytes\n got %x\nwant %x", got, want)
	}
}

func TestTranscribeRequest_EmptyOneofMemberIsWritten(t *testing.T) {
	got, err := (&TranscribeRequest{Source: AudioPath("")}).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(got, []byte{0x0a, 0x00}) {
		t.Errorf("expected empty audio_path to be present, got %x", got)
	}

	var back TranscribeRequest
	if err := back.Unmarshal(got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := back.Source.(AudioPath); !ok {
		t.Errorf("expected AudioPath source, got %T", back.Source)
	}
}

func TestTranscribeRequest_SourceVariants(t *testing.T) {
	tests := []struct {
		name string
		src  AudioSource
	}{
		{"path", AudioPath("/calls/aapl.mp3")},
		{"data", AudioData{0x49, 0x44, 0x33}},
		{"uri", AudioURI("s3://bucket/aapl.mp3")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := (&TranscribeRequest{Source: tc.src}).Marshal()
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var back TranscribeRequest
			if err := back.Unmarshal(b); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			switch want := tc.src.(type) {
			case AudioData:
				got, ok := back.Source.(AudioData)
				if !ok || !bytes.Equal(got, want) {
					t.Errorf("source = %#v, want %#v", back.Source, want)
				}
			default:
				if back.Source != tc.src {
					t.Errorf("source = %#v, want %#v", back.Source, tc.src)
				}
			}
		})
	}
}

func TestTranscribeOptions_NegativeSpeakersSignExtended(t *testing.T) {
	b := (&TranscribeOptions{NumSpeakers: -1}).marshal()
	// tag + ten-byte varint
	if len(b) != 11 {
		t.Fatalf("expected 11 bytes for negative int32, got %d (%x)", len(b), b)
	}
	var back TranscribeOptions
	if err := back.unmarshal(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.NumSpeakers != -1 {
		t.Errorf("NumSpeakers = %d, want -1", back.NumSpeakers)
	}
}

func TestTranscriptChunk_DecodeSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(1.5))
	b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(3.25))
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, "Revenue grew")
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, "SPEAKER_00")
	b = protowire.AppendTag(b, 5, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(0.5))

	var w []byte
	w = protowire.AppendTag(w, 3, protowire.BytesType)
	w = protowire.AppendString(w, "Revenue")
	w = protowire.AppendTag(w, 4, protowire.Fixed32Type)
	w = protowire.AppendFixed32(w, math.Float32bits(0.75))
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendBytes(b, w)

	var c TranscriptChunk
	if err := c.Unmarshal(b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.StartTime != 1.5 || c.EndTime != 3.25 {
		t.Errorf("times = %v..%v", c.StartTime, c.EndTime)
	}
	if c.Text != "Revenue grew" || c.SpeakerID != "SPEAKER_00" || c.Confidence != 0.5 {
		t.Errorf("unexpected chunk %+v", c)
	}
	if len(c.Words) != 1 || c.Words[0].Text != "Revenue" || c.Words[0].Confidence != 0.75 {
		t.Errorf("unexpected words %+v", c.Words)
	}
}

func TestTranscriptChunk_ZeroValuesOmitted(t *testing.T) {
	b, err := (&TranscriptChunk{}).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(b) != 0 {
		t.Errorf("expected empty encoding, got %x", b)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	var c TranscriptChunk
	// text field claims 10 bytes but carries 2
	if err := c.Unmarshal([]byte{0x1a, 0x0a, 'h', 'i'}); err == nil {
		t.Error("expected error for truncated field")
	}
	if err := c.Unmarshal([]byte{0x80}); err == nil {
		t.Error("expected error for truncated tag")
	}
}

func TestUnmarshal_InvalidUTF8(t *testing.T) {
	bad := string([]byte{0xff, 0xfe, 'h', 'i'})
	str := func(num protowire.Number) []byte {
		b := protowire.AppendTag(nil, num, protowire.BytesType)
		return protowire.AppendString(b, bad)
	}

	tests := []struct {
		name string
		msg  interface{ Unmarshal([]byte) error }
		data []byte
	}{
		{"chunk text", &TranscriptChunk{}, str(3)},
		{"chunk speaker", &TranscriptChunk{}, str(4)},
		{"word text", &TranscriptChunk{}, protowire.AppendBytes(protowire.AppendTag(nil, 6, protowire.BytesType), str(3))},
		{"request path", &TranscribeRequest{}, str(1)},
		{"request uri", &TranscribeRequest{}, str(3)},
		{"request language", &TranscribeRequest{}, str(4)},
		{"options prompt", &TranscribeRequest{}, protowire.AppendBytes(protowire.AppendTag(nil, 5, protowire.BytesType), str(3))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.msg.Unmarshal(tc.data); !errors.Is(err, ErrInvalidUTF8) {
				t.Errorf("expected ErrInvalidUTF8, got %v", err)
			}
		})
	}

	var ok TranscriptChunk
	if err := ok.Unmarshal(protowire.AppendString(protowire.AppendTag(nil, 3, protowire.BytesType), "Umsatz stieg über 5 %")); err != nil {
		t.Errorf("valid UTF-8 rejected: %v", err)
	}
}

func TestCodec(t *testing.T) {
	c := Codec{}
	if c.Name() != "proto" {
		t.Errorf("Name() = %q", c.Name())
	}
	b, err := c.Marshal(&TranscriptChunk{Text: "hi", EndTime: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back TranscriptChunk
	if err := c.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Text != "hi" || back.EndTime != 1 {
		t.Errorf("unexpected chunk %+v", back)
	}

	if _, err := c.Marshal("not a message"); err == nil {
		t.Error("expected error marshalling foreign type")
	}
	if err := c.Unmarshal(b, new(int)); err == nil {
		t.Error("expected error unmarshalling into foreign type")
	}
}
