package imaging

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(zerolog.Nop())
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{200, 30, 30, 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeDimensionRoundTrip(t *testing.T) {
	data := encodePNG(t, 120, 80)

	out, err := testNormalizer().Normalize("artwork.png", "image/png", data)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	mime, raw, err := DecodeDataURI(out)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg payload, got %s", mime)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode normalized payload: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("dimensions changed: got %dx%d, want 120x80", b.Dx(), b.Dy())
	}
}

func TestNormalizeRejectsOversize(t *testing.T) {
	data := make([]byte, MaxUploadBytes+1)
	_, err := testNormalizer().Normalize("huge.jpg", "image/jpeg", data)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestNormalizeRejectsUnknownType(t *testing.T) {
	_, err := testNormalizer().Normalize("notes.txt", "text/plain", []byte("not an image"))
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

// HEIC-flagged uploads are routed into the HEIC decoder; a payload it
// cannot parse surfaces the conversion error instead of the raw-bytes
// fallback.
func TestNormalizeHEICDecodeFailure(t *testing.T) {
	for _, tc := range []struct {
		name string
		mime string
	}{
		{"photo.heic", "image/heic"},
		{"photo.heif", ""},
		{"photo", "image/heif"},
	} {
		_, err := testNormalizer().Normalize(tc.name, tc.mime, encodePNG(t, 10, 10))
		if !errors.Is(err, ErrHEICUnsupported) {
			t.Errorf("%s/%s: expected ErrHEICUnsupported, got %v", tc.name, tc.mime, err)
		}
	}
}

func TestNormalizeFallsBackToRawBytes(t *testing.T) {
	raw := []byte("declared as png but not decodable")

	out, err := testNormalizer().Normalize("broken.png", "image/png", raw)
	if err != nil {
		t.Fatalf("Normalize should fall back, got error: %v", err)
	}
	_, got, err := DecodeDataURI(out)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("fallback payload should be the raw bytes")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	raw := []byte{0x01, 0x02, 0xFF, 0x00, 0x7F}
	uri := DataURI("image/png", raw)
	mime, got, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(got, raw) {
		t.Errorf("round trip mismatch: mime=%s", mime)
	}

	if _, _, err := DecodeDataURI("https://example.com/image.png"); !errors.Is(err, ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI for plain URL, got %v", err)
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		512:              "512 Bytes",
		2048:             "2.0 KB",
		5 * 1024 * 1024:  "5.0 MB",
		3 << 30:          "3.0 GB",
		50 * 1024 * 1024: "50.0 MB",
		1536 * 1024:      "1.5 MB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestWatermark(t *testing.T) {
	src := DataURI("image/png", encodePNG(t, 200, 100))

	out, err := Watermark(src)
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/png;base64,") {
		t.Errorf("expected png data URI, got prefix %q", out[:30])
	}
	mime, raw, err := DecodeDataURI(out)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %s", mime)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode watermarked: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("watermark changed dimensions: %dx%d", b.Dx(), b.Dy())
	}
	if out == src {
		t.Errorf("watermarked payload identical to source")
	}
}
