package service

import (
	"context"
	"encoding/json"
	"io"

	"artview/internal/imaging"
	"artview/internal/model"
	"artview/internal/prompt"
	"artview/internal/replicate"
	"artview/internal/storage"

	"github.com/rs/zerolog"
)

const (
	placementModel     = "black-forest-labs/flux-kontext-pro"
	defaultAspectRatio = "16:9"
)

type PlacementService interface {
	Place(ctx context.Context, image string, opts prompt.Options) (*model.PlacementResult, error)
}

type placementService struct {
	client    *replicate.Client
	store     storage.ImageStore // nil: byte streams become inline data URIs
	maxStream int64
	logger    zerolog.Logger
}

func NewPlacementService(client *replicate.Client, store storage.ImageStore, maxStreamBytes int64, logger zerolog.Logger) PlacementService {
	lg := logger.With().Str("service", "PlacementService").Logger()
	return &placementService{client: client, store: store, maxStream: maxStreamBytes, logger: lg}
}

// Place renders the artwork into the chosen environment. The provider
// answers in one of four shapes (byte stream, URL string, URL array,
// object with url); all collapse to a single image URL here. No
// retries: a generation that failed once is reported, not repeated.
func (s *placementService) Place(ctx context.Context, image string, opts prompt.Options) (*model.PlacementResult, error) {
	if !s.client.Ready() {
		return nil, replicate.ErrMissingToken
	}

	p := prompt.Build(opts)
	aspectRatio := opts.AspectRatio
	if aspectRatio == "" {
		aspectRatio = defaultAspectRatio
	}

	out, err := s.client.Run(ctx, placementModel, map[string]any{
		"input_image":    image,
		"prompt":         p,
		"output_format":  "png",
		"output_quality": 100,
		"aspect_ratio":   aspectRatio,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("environment", opts.Environment).Msg("Placement failed")
		return nil, newUpstreamError("failed to place artwork in environment", err)
	}

	imageURL, err := s.resolveOutput(ctx, out)
	if err != nil {
		return nil, err
	}

	return &model.PlacementResult{
		ImageURL:    imageURL,
		Environment: opts.Environment,
		PromptUsed:  p,
	}, nil
}

func (s *placementService) resolveOutput(ctx context.Context, out *replicate.Output) (string, error) {
	if out.Stream != nil {
		defer out.Stream.Close()
		contentType := out.ContentType
		if contentType == "" {
			contentType = "image/png"
		}
		if s.store != nil {
			return s.store.Save(ctx, storage.Capped(out.Stream, s.maxStream), contentType)
		}
		data, err := io.ReadAll(storage.Capped(out.Stream, s.maxStream))
		if err != nil {
			return "", err
		}
		return imaging.DataURI(contentType, data), nil
	}

	var str string
	if err := json.Unmarshal(out.JSON, &str); err == nil && str != "" {
		return str, nil
	}
	var arr []string
	if err := json.Unmarshal(out.JSON, &arr); err == nil && len(arr) > 0 {
		return arr[0], nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(out.JSON, &obj); err == nil && obj.URL != "" {
		return obj.URL, nil
	}
	return "", ErrUnexpectedOutput
}
