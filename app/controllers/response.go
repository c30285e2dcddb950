package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"folio/app/frontmatter"
	"folio/app/logger"
	"folio/app/repositories"
	"folio/app/services"
)

// maxJSONBytes bounds a post create or update body.
const maxJSONBytes = 4 << 20

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

// sendServiceError maps an error from the service layer to a status code.
// fallback is the message used for unexpected failures, which are logged.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		validationErr *services.ValidationError
		parseErr      *frontmatter.ParseError
	)

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, "Blog post not found", http.StatusNotFound)
	case errors.Is(err, repositories.ErrConflict):
		sendError(w, "A blog post with this title already exists", http.StatusConflict)
	case errors.As(err, &validationErr):
		sendError(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNoFile):
		sendError(w, "No image file provided", http.StatusBadRequest)
	case errors.Is(err, services.ErrFileTooLarge):
		sendError(w, "Image is too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, services.ErrNotImage):
		sendError(w, "Only image uploads are accepted", http.StatusUnsupportedMediaType)
	case errors.As(err, &parseErr):
		logger.Error("malformed post file", zap.String("path", r.URL.Path), zap.Error(err))
		sendError(w, "Blog post file is malformed", http.StatusInternalServerError)
	default:
		logger.Error(fallback, zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		sendError(w, fallback, http.StatusInternalServerError)
	}
}

// decodeJSON reads a bounded JSON body into dst and writes the error response
// itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Request body is too large", http.StatusRequestEntityTooLarge)
			return false
		}
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
