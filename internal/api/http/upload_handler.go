package http

import (
	"net/http"

	"clubverse-backend/internal/service"

	"github.com/gorilla/mux"
)

type UploadHandler struct {
	uploadSvc service.UploadService
	maxBytes  int64
}

func NewUploadHandler(uploadSvc service.UploadService, maxFileSizeMB int64) *UploadHandler {
	return &UploadHandler{
		uploadSvc: uploadSvc,
		maxBytes:  maxFileSizeMB << 20,
	}
}

// Upload accepts a multipart form with a single "file" field. The path
// variable selects the destination prefix (avatars, posts, events).
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1024)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, service.ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.uploadSvc.UploadImage(r.Context(), kind, header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeBadRequest(w, "url is required")
		return
	}
	if err := h.uploadSvc.DeleteImage(r.Context(), req.URL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "file deleted"})
}
