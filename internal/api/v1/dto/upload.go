package dto

// NormalizeResponseDTO describes the server-processed upload: a
// browser-safe data URI plus what happened to get there.
type NormalizeResponseDTO struct {
	Success      bool   `json:"success"`
	Name         string `json:"name"`
	MIME         string `json:"type"`
	OriginalSize int64  `json:"original_size"`
	Size         int64  `json:"size"`
	Compressed   bool   `json:"compressed"`
	DataURI      string `json:"data"`
}
