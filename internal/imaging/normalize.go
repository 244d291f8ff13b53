// Package imaging standardizes uploaded artwork photos. Phone cameras
// commonly produce vendor formats downstream consumers cannot read, and
// uncompressed photos routinely exceed reasonable request-body limits;
// both get normalized to a bounded JPEG data URI before transmission.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/jdeng/goheif"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

const (
	// MaxUploadBytes is the hard ceiling checked before any decoding.
	MaxUploadBytes = 50 * 1024 * 1024

	// Re-encode target and quality ladder.
	targetEncodedBytes = 2 * 1024 * 1024
	startQuality       = 90
	qualityStep        = 10
	minQuality         = 30
)

var (
	ErrInvalidType     = errors.New("please upload a valid image file (JPG, PNG, WebP, or HEIC)")
	ErrTooLarge        = errors.New("file too large")
	ErrHEICUnsupported = errors.New("could not convert the HEIC image; please convert the file to JPG first")
)

var validMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
	".heif": true,
}

type Normalizer struct {
	logger zerolog.Logger
}

func NewNormalizer(logger zerolog.Logger) *Normalizer {
	lg := logger.With().Str("service", "ImageNormalizer").Logger()
	return &Normalizer{logger: lg}
}

// Normalize validates an uploaded file and re-encodes it into a JPEG
// data URI, stepping the quality down until the payload fits the
// target size. HEIC/HEIF inputs go through their own decoder first;
// for other formats a bitmap that cannot be decoded is returned as a
// raw-bytes data URI so the caller is never fully blocked.
func (n *Normalizer) Normalize(name, declaredMIME string, data []byte) (string, error) {
	if int64(len(data)) > MaxUploadBytes {
		return "", fmt.Errorf("%w (%s): maximum size is %s", ErrTooLarge, FormatSize(int64(len(data))), FormatSize(MaxUploadBytes))
	}

	detected := mimetype.Detect(data)
	if !validMIMETypes[strings.ToLower(declaredMIME)] &&
		!validExtensions[strings.ToLower(filepath.Ext(name))] &&
		!strings.HasPrefix(detected.String(), "image/") {
		return "", ErrInvalidType
	}

	var img image.Image
	if isHEIC(name, declaredMIME, detected.String()) {
		decoded, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			n.logger.Warn().Err(err).Str("file", name).Msg("HEIC decode failed")
			return "", fmt.Errorf("%w: %v", ErrHEICUnsupported, err)
		}
		img = decoded
	} else {
		decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			// Keep the upload usable even when the decoder chokes on it.
			n.logger.Warn().Err(err).Str("file", name).Msg("Decode failed, returning raw bytes as data URI")
			return DataURI(detected.String(), data), nil
		}
		img = decoded
	}

	var buf bytes.Buffer
	quality := startQuality
	for {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return "", fmt.Errorf("encode jpeg: %w", err)
		}
		if buf.Len() <= targetEncodedBytes || quality-qualityStep < minQuality {
			break
		}
		quality -= qualityStep
	}

	n.logger.Debug().
		Str("file", name).
		Int("quality", quality).
		Str("size", FormatSize(int64(buf.Len()))).
		Msg("Image normalized")

	return DataURI("image/jpeg", buf.Bytes()), nil
}

func isHEIC(name, declaredMIME, detectedMIME string) bool {
	switch strings.ToLower(declaredMIME) {
	case "image/heic", "image/heif":
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".heic", ".heif":
		return true
	}
	switch detectedMIME {
	case "image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence":
		return true
	}
	return false
}

// FormatSize renders a byte count for error messages and logs.
func FormatSize(bytes int64) string {
	const k = 1024
	switch {
	case bytes >= k*k*k:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(k*k*k))
	case bytes >= k*k:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(k*k))
	case bytes >= k:
		return fmt.Sprintf("%.1f KB", float64(bytes)/k)
	default:
		return fmt.Sprintf("%d Bytes", bytes)
	}
}
