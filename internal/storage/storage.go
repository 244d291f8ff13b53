// Package storage persists drained provider image streams.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrStreamTooLarge is returned when a provider stream runs past the
// configured byte ceiling.
var ErrStreamTooLarge = errors.New("image stream exceeds size ceiling")

// ImageStore writes one image stream and returns a publicly
// addressable URL for it.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader, contentType string) (string, error)
}

type cappedReader struct {
	r         io.Reader
	remaining int64
}

// Capped wraps r so that reading more than limit bytes fails with
// ErrStreamTooLarge instead of silently truncating.
func Capped(r io.Reader, limit int64) io.Reader {
	return &cappedReader{r: r, remaining: limit}
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, ErrStreamTooLarge
	}
	return n, err
}
