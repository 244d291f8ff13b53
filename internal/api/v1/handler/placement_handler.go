package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"artview/internal/api/v1/dto"
	"artview/internal/imaging"
	"artview/internal/model"
	"artview/internal/prompt"
	"artview/internal/replicate"
	"artview/internal/service"

	"github.com/go-playground/validator/v10"
)

type PlacementHandler struct {
	placementService service.PlacementService
	accountService   service.AccountService
	validate         *validator.Validate
}

func NewPlacementHandler(placementService service.PlacementService, accountService service.AccountService, v *validator.Validate) *PlacementHandler {
	return &PlacementHandler{placementService: placementService, accountService: accountService, validate: v}
}

// RegisterRoutes mounts v1 placement routes
func (h *PlacementHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/placements", h.createPlacement)
}

func (h *PlacementHandler) createPlacement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. Decode request body into DTO
	var req dto.PlacementRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Validate DTO
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}

	// 3. Map DTO to prompt options
	opts := prompt.Options{
		Environment:     req.Environment,
		CustomPrompt:    req.CustomPrompt,
		ArtworkType:     req.ArtworkType,
		IncludePedestal: req.IncludePedestal,
		ViewingAngle:    req.ViewingAngle,
		Lighting:        req.Lighting,
		AspectRatio:     req.AspectRatio,
	}
	if req.ArtworkDimensions != nil {
		opts.Width = req.ArtworkDimensions.Width
		opts.Height = req.ArtworkDimensions.Height
		opts.Depth = req.ArtworkDimensions.Depth
		opts.Unit = req.ArtworkDimensions.Unit
	}

	// 4. Call service to run the placement
	res, err := h.placementService.Place(r.Context(), req.Image, opts)
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
			writeError(w, http.StatusInternalServerError, "Failed to generate image: "+err.Error())
		}
		return
	}

	// 5. Watermark inline results for free-plan users
	imageURL := res.ImageURL
	if req.Email != "" && strings.HasPrefix(imageURL, "data:") {
		if status, err := h.accountService.GetCredits(r.Context(), req.Email); err == nil && status.Plan == model.PlanFree {
			if marked, err := imaging.Watermark(imageURL); err == nil {
				imageURL = marked
			}
		}
	}

	// 6. Return response
	writeJSON(w, http.StatusOK, dto.PlacementResponseDTO{
		Success:     true,
		ImageURL:    imageURL,
		Environment: res.Environment,
		PromptUsed:  res.PromptUsed,
	})
}
