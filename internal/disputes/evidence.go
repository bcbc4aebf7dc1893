package disputes

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxEvidenceFiles = 5
	DefaultMaxEvidenceBytes = 10 << 20
)

var evidenceMimeTypes = []string{
	"application/pdf",
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/webp",
	"video/mp4",
	"video/webm",
}

// EvidenceFile references an uploaded file. Only metadata is kept.
type EvidenceFile struct {
	Name     string `json:"name" validate:"required,max=255"`
	Size     int64  `json:"size" validate:"gt=0"`
	MimeType string `json:"mimeType" validate:"required"`
}

// Limits bounds the evidence attached to one dispute.
type Limits struct {
	MaxFiles int
	MaxBytes int64
}

func (l Limits) normalized() Limits {
	if l.MaxFiles <= 0 {
		l.MaxFiles = DefaultMaxEvidenceFiles
	}
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxEvidenceBytes
	}
	return l
}

// Inspect sniffs the content type of an uploaded file from its leading bytes
// and returns the reference to store. The declared header type is ignored.
func Inspect(name string, size int64, r io.Reader) (EvidenceFile, error) {
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return EvidenceFile{}, fmt.Errorf("detect mime type of %s: %w", name, err)
	}
	return EvidenceFile{
		Name:     filepath.Base(strings.TrimSpace(name)),
		Size:     size,
		MimeType: normalizeMime(detected.String()),
	}, nil
}

func normalizeMime(value string) string {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(value))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return strings.ToLower(mediaType)
}

func allowedEvidenceType(value string) bool {
	return slices.Contains(evidenceMimeTypes, normalizeMime(value))
}

func allowedEvidenceDescription() string {
	return "images, videos, or PDFs"
}
