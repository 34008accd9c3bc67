package media

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/kbukum/vetta/errors"
	"github.com/kbukum/vetta/logger"
)

const (
	// DefaultMaxSizeMB is the default size ceiling.
	DefaultMaxSizeMB uint64 = 500

	bytesPerMB = 1024 * 1024
	rootMIME   = "application/octet-stream"
	textMIME   = "text/plain"
)

// DefaultAllowedTypes are the formats the speech service accepts.
// Aliases (audio/x-wav, audio/mp3, ...) match through mimetype.
var DefaultAllowedTypes = []string{
	"audio/mpeg",
	"audio/wav",
	"audio/x-m4a",
	"video/mp4",
}

// Descriptor describes a validated media file.
type Descriptor struct {
	Path string `json:"path"`
	// MIMEType is the sniffed content type.
	MIMEType string `json:"mime_type"`
	// Extension is the canonical extension for MIMEType, e.g. ".mp3".
	Extension string `json:"extension"`
	SizeBytes int64  `json:"size_bytes"`
}

// SizeMB returns the size in whole megabytes, truncated.
func (d *Descriptor) SizeMB() uint64 {
	return uint64(d.SizeBytes) / bytesPerMB
}

// Validator checks files against a size ceiling and a content-type allow-list.
type Validator struct {
	maxSizeMB uint64
	allowed   []string
	log       *logger.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxSizeMB sets the size ceiling. Zero keeps the default.
func WithMaxSizeMB(mb uint64) Option {
	return func(v *Validator) {
		if mb > 0 {
			v.maxSizeMB = mb
		}
	}
}

// WithAllowedTypes replaces the allow-list.
func WithAllowedTypes(types ...string) Option {
	return func(v *Validator) { v.allowed = types }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(v *Validator) { v.log = l }
}

// NewValidator creates a Validator with the default ceiling and allow-list.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		maxSizeMB: DefaultMaxSizeMB,
		allowed:   DefaultAllowedTypes,
	}
	for _, o := range opts {
		o(v)
	}
	if v.log == nil {
		v.log = logger.Get("media")
	}
	return v
}

// MaxSizeMB returns the configured ceiling.
func (v *Validator) MaxSizeMB() uint64 { return v.maxSizeMB }

// Validate checks path and returns its descriptor.
func (v *Validator) Validate(path string) (*Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, v.reject(apperrors.FileNotFound(path).WithCause(err))
		}
		return nil, v.reject(apperrors.InvalidInput("path", err.Error()).WithCause(err))
	}
	if !info.Mode().IsRegular() {
		return nil, v.reject(apperrors.InvalidInput("path", "not a regular file: "+path))
	}

	size := info.Size()
	if size == 0 {
		return nil, v.reject(apperrors.FileEmpty(path))
	}
	sizeMB := uint64(size) / bytesPerMB
	if sizeMB > v.maxSizeMB {
		return nil, v.reject(apperrors.FileTooLarge(v.maxSizeMB, sizeMB).WithDetail("path", path))
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, v.reject(apperrors.Internal(err).WithDetail("path", path))
	}
	if !hasSignature(mtype) {
		return nil, v.reject(apperrors.UnknownType(path))
	}
	if !v.isAllowed(mtype) {
		return nil, v.reject(apperrors.InvalidFormat(mediaType(mtype.String()), v.allowed).WithDetail("path", path))
	}

	d := &Descriptor{
		Path:      path,
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
		SizeBytes: size,
	}
	v.log.Debug("media validated", map[string]interface{}{
		logger.FieldPath:     path,
		logger.FieldMIMEType: d.MIMEType,
		logger.FieldSizeMB:   d.SizeMB(),
	})
	return d, nil
}

// hasSignature reports whether m came from a binary signature. The root type
// and everything under text/plain are heuristic guesses, not matches.
func hasSignature(m *mimetype.MIME) bool {
	if m.Is(rootMIME) {
		return false
	}
	for ; m != nil; m = m.Parent() {
		if m.Is(textMIME) {
			return false
		}
	}
	return true
}

// mediaType strips parameters such as "; charset=utf-8".
func mediaType(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(base)
}

func (v *Validator) isAllowed(m *mimetype.MIME) bool {
	for _, t := range v.allowed {
		if m.Is(t) {
			return true
		}
	}
	return false
}

func (v *Validator) reject(err *apperrors.AppError) error {
	v.log.Debug("media rejected", logger.ErrorFields("validate", err))
	return err
}

// Validate checks path with the default Validator.
func Validate(path string) (*Descriptor, error) {
	return NewValidator().Validate(path)
}
