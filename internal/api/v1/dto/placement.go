package dto

// ArtworkDimensionsDTO carries the physical size of the artwork as
// entered by the user. Values stay strings so "2.5" and "2,5" both
// arrive intact for prompt text.
type ArtworkDimensionsDTO struct {
	Width  string `json:"width"`
	Height string `json:"height"`
	Depth  string `json:"depth"`
	Unit   string `json:"unit"`
}

// PlacementRequestDTO is used for incoming placement requests. Image
// is a data URI or a public URL.
type PlacementRequestDTO struct {
	Image             string                `json:"image" validate:"required"`
	Environment       string                `json:"environment"`
	CustomPrompt      string                `json:"customPrompt"`
	ArtworkDimensions *ArtworkDimensionsDTO `json:"artworkDimensions"`
	ArtworkType       string                `json:"artworkType"`
	IncludePedestal   bool                  `json:"includePedestal"`
	ViewingAngle      string                `json:"viewingAngle"`
	Lighting          string                `json:"lighting"`
	AspectRatio       string                `json:"aspectRatio"`
	Email             string                `json:"email"`
}

// PlacementResponseDTO is returned in API responses
type PlacementResponseDTO struct {
	Success     bool   `json:"success"`
	ImageURL    string `json:"image_url"`
	Environment string `json:"environment"`
	PromptUsed  string `json:"prompt_used"`
}
