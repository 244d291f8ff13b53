package dto

type UpscaleRequestDTO struct {
	ImageURL string `json:"imageUrl" validate:"required"`
}

type UpscaleResponseDTO struct {
	Success          bool   `json:"success"`
	UpscaledImageURL string `json:"upscaled_image_url"`
	OriginalImageURL string `json:"original_image_url"`
	ScaleFactor      int    `json:"scale_factor"`
}
