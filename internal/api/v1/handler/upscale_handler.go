package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"artview/internal/api/v1/dto"
	"artview/internal/replicate"
	"artview/internal/service"

	"github.com/go-playground/validator/v10"
)

type UpscaleHandler struct {
	upscaleService service.UpscaleService
	validate       *validator.Validate
}

func NewUpscaleHandler(upscaleService service.UpscaleService, v *validator.Validate) *UpscaleHandler {
	return &UpscaleHandler{upscaleService: upscaleService, validate: v}
}

// RegisterRoutes mounts v1 upscale routes
func (h *UpscaleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/upscales", h.createUpscale)
}

func (h *UpscaleHandler) createUpscale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. Decode request body into DTO
	var req dto.UpscaleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Validate DTO
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No image URL provided")
		return
	}

	// 3. Call service to upscale the image
	res, err := h.upscaleService.Upscale(r.Context(), req.ImageURL)
	if err != nil {
		var ue *service.UpstreamError
		switch {
		case errors.As(err, &ue):
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponseDTO{
				Success: false,
				Error:   ue.Msg,
				Details: ue.Detail,
			})
		case errors.Is(err, replicate.ErrMissingToken):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to upscale image: "+err.Error())
		}
		return
	}

	// 4. Return response
	writeJSON(w, http.StatusOK, dto.UpscaleResponseDTO{
		Success:          true,
		UpscaledImageURL: res.UpscaledImageURL,
		OriginalImageURL: res.OriginalImageURL,
		ScaleFactor:      res.ScaleFactor,
	})
}
