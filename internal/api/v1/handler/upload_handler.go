package handler

import (
	"errors"
	"io"
	"net/http"

	"artview/internal/api/v1/dto"
	"artview/internal/imaging"
)

type UploadHandler struct {
	normalizer *imaging.Normalizer
}

func NewUploadHandler(normalizer *imaging.Normalizer) *UploadHandler {
	return &UploadHandler{normalizer: normalizer}
}

// RegisterRoutes mounts v1 upload routes
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/uploads/normalize", h.normalizeUpload)
}

func (h *UploadHandler) normalizeUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. Read the uploaded file from the multipart form
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file: "+err.Error())
		return
	}

	// 2. Normalize to a bounded JPEG data URI
	dataURI, err := h.normalizer.Normalize(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, imaging.ErrInvalidType), errors.Is(err, imaging.ErrHEICUnsupported):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to process image: "+err.Error())
		}
		return
	}

	// 3. Return response
	mime, normalized, err := imaging.DecodeDataURI(dataURI)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process image: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.NormalizeResponseDTO{
		Success:      true,
		Name:         header.Filename,
		MIME:         mime,
		OriginalSize: int64(len(data)),
		Size:         int64(len(normalized)),
		Compressed:   int64(len(normalized)) < int64(len(data)),
		DataURI:      dataURI,
	})
}
