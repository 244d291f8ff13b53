package model

// PlacementResult is the outcome of one generation call.
type PlacementResult struct {
	ImageURL    string `json:"image_url"`
	Environment string `json:"environment"`
	PromptUsed  string `json:"prompt_used"`
}

// UpscaleResult is the outcome of one upscale call.
type UpscaleResult struct {
	UpscaledImageURL string `json:"upscaled_image_url"`
	OriginalImageURL string `json:"original_image_url"`
	ScaleFactor      int    `json:"scale_factor"`
}
