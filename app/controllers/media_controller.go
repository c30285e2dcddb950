package controllers

import (
	"errors"
	"net/http"

	"folio/app/services"
)

// multipartOverhead is headroom for form boundaries and headers on top of the
// file size limit.
const multipartOverhead = 1 << 20

// MediaController handles image uploads and the media index.
type MediaController struct {
	mediaService *services.MediaService
}

func NewMediaController(mediaService *services.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// Upload stores the multipart "image" field and returns its public URL. It
// re-checks the method for callers that mount it without a router.
func (mc *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, mc.mediaService.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(mc.mediaService.MaxBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendServiceError(w, r, services.ErrFileTooLarge, "")
			return
		}
		sendError(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, fh, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		sendServiceError(w, r, services.ErrNoFile, "")
		return
	}
	if err != nil {
		sendError(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	media, err := mc.mediaService.Save(fh)
	if err != nil {
		sendServiceError(w, r, err, "Error uploading image")
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"imageUrl": media.URL})
}

// List returns the media index, newest upload first.
func (mc *MediaController) List(w http.ResponseWriter, r *http.Request) {
	items, err := mc.mediaService.List()
	if err != nil {
		sendServiceError(w, r, err, "Error fetching media")
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{"media": items})
}
