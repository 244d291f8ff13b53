package service

import (
	"context"
	"encoding/json"

	"artview/internal/model"
	"artview/internal/replicate"

	"github.com/rs/zerolog"
)

const upscaleModel = "topazlabs/image-upscale"

type UpscaleService interface {
	Upscale(ctx context.Context, imageURL string) (*model.UpscaleResult, error)
}

type upscaleService struct {
	client *replicate.Client
	logger zerolog.Logger
}

func NewUpscaleService(client *replicate.Client, logger zerolog.Logger) UpscaleService {
	lg := logger.With().Str("service", "UpscaleService").Logger()
	return &upscaleService{client: client, logger: lg}
}

// Upscale doubles the resolution of a previously generated image. All
// enhancement parameters are fixed; only the source URL varies.
func (s *upscaleService) Upscale(ctx context.Context, imageURL string) (*model.UpscaleResult, error) {
	if !s.client.Ready() {
		return nil, replicate.ErrMissingToken
	}

	out, err := s.client.Run(ctx, upscaleModel, map[string]any{
		"image":                       imageURL,
		"enhance_model":               "Standard V2",
		"upscale_factor":              "2x",
		"output_format":               "jpg",
		"subject_detection":           "None",
		"face_enhancement":            false,
		"face_enhancement_creativity": 0,
		"face_enhancement_strength":   0.8,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Upscale failed")
		return nil, newUpstreamError("failed to upscale image", err)
	}

	upscaledURL, err := extractUpscaleURL(out)
	if err != nil {
		return nil, err
	}

	return &model.UpscaleResult{
		UpscaledImageURL: upscaledURL,
		OriginalImageURL: imageURL,
		ScaleFactor:      2,
	}, nil
}

// extractUpscaleURL accepts the documented output shapes: a URL
// string, an object with a url field, or an object whose single value
// is the URL.
func extractUpscaleURL(out *replicate.Output) (string, error) {
	if out.Stream != nil {
		out.Stream.Close()
		return "", ErrUnexpectedOutput
	}

	var str string
	if err := json.Unmarshal(out.JSON, &str); err == nil && str != "" {
		return str, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(out.JSON, &obj); err == nil && len(obj) > 0 {
		if u, ok := obj["url"].(string); ok && u != "" {
			return u, nil
		}
		if len(obj) == 1 {
			for _, v := range obj {
				if u, ok := v.(string); ok && u != "" {
					return u, nil
				}
			}
		}
		return "", ErrCannotExtractURL
	}
	return "", ErrUnexpectedOutput
}
