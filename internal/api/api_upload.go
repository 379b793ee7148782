package api

import (
	"net/http"
	"path/filepath"
	"strings"
)

const maxUploadSize = 32 << 20 // 32MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

func (a *API) uploadMedia(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[strings.ToLower(contentType)] {
		respondError(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	url, err := a.storage.Upload(r.Context(), file, contentType, filepath.Ext(header.Filename))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
