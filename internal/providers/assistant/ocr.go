package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"farmaai/internal/domain"
)

// MaxImageBytes bounds decoded prescription images.
const MaxImageBytes = 5 << 20

// OCR extracts a medication name from a prescription image.
type OCR interface {
	ExtractMedication(ctx context.Context, image string) (string, error)
}

// StaticOCR validates the upload and always reports the same medication.
type StaticOCR struct {
	result string
}

func NewStaticOCR() *StaticOCR {
	return &StaticOCR{result: "paracetamol 500mg"}
}

func (s *StaticOCR) ExtractMedication(ctx context.Context, image string) (string, error) {
	if _, err := DecodeImage(image); err != nil {
		return "", err
	}
	return NormalizeMedicationName(s.result), nil
}

// DecodeImage accepts raw base64 or a data URL and returns the image bytes.
func DecodeImage(image string) ([]byte, error) {
	payload := strings.TrimSpace(image)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 || !strings.Contains(payload[:idx], ";base64") {
			return nil, fmt.Errorf("%w: malformed data url", domain.ErrInvalidInput)
		}
		payload = payload[idx+1:]
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: image is required", domain.ErrInvalidInput)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, MaxImageBytes)
	}
	return data, nil
}

// NormalizeMedicationName collapses whitespace and title-cases a medication
// name the way Brazilian labels are printed.
func NormalizeMedicationName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.BrazilianPortuguese).String(name)
}

var _ OCR = (*StaticOCR)(nil)
