package http

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"path/filepath"

	"finclusion/internal/domain/profile"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file itself.
const multipartOverhead = 1 << 20

type ProfileHandler struct {
	profileService *profile.Service
	maxFileSize    int64
}

func NewProfileHandler(profileService *profile.Service, maxFileSize int64) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, maxFileSize: maxFileSize}
}

type UploadImageResponse struct {
	ImageURL string           `json:"imageUrl"`
	Profile  *profile.Profile `json:"profile"`
}

// HandleProfile handles both GET and PUT requests for the caller's profile
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetProfile(w, r)
	case http.MethodPut:
		h.handleUpdateProfile(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *ProfileHandler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	p, err := h.profileService.Get(r.Context(), userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		log.Printf("Error getting profile for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeSuccess(w, http.StatusOK, p)
}

func (h *ProfileHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var params profile.UpdateParams
	if !decodeJSON(w, r, &params) {
		return
	}

	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.profileService.Update(r.Context(), userID, params)
	if errors.Is(err, profile.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		log.Printf("Error updating profile for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeSuccess(w, http.StatusOK, p)
}

// HandleUploadImage accepts a multipart "image" field and makes it the
// caller's profile image.
func (h *ProfileHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	url, p, err := h.profileService.UploadImage(r.Context(), userID, header.Filename, contentType, file)
	switch {
	case errors.Is(err, profile.ErrUnsupportedImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, profile.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
	case err != nil:
		log.Printf("Error uploading profile image for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
	default:
		writeSuccess(w, http.StatusOK, UploadImageResponse{ImageURL: url, Profile: p})
	}
}
