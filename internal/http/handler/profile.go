package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/taskpad/taskpad-api/internal/service"
)

const maxPhotoSize = 5 << 20 // 5 MB

// accessTokenHeader carries the provider access token for attribute writes.
// The Authorization header holds the ID token, which cannot modify the
// provider profile.
const accessTokenHeader = "X-Access-Token"

type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// ServeHTTP routes /api/v1/profile and /api/v1/profile/photo.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/profile")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r)
		case http.MethodPatch:
			h.handleUpdateName(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
	case "photo":
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleUpdatePhoto(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), getUserID(r))
	if err != nil {
		handleProfileError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

type updateNameRequest struct {
	Name string `json:"name"`
}

func (h *ProfileHandler) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	err := h.svc.UpdateName(r.Context(), getUserID(r), r.Header.Get(accessTokenHeader), req.Name)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

// handleUpdatePhoto accepts a multipart upload under the "photo" field. A
// request without a file is accepted and ignored, same as dismissing the
// file picker.
func (h *ProfileHandler) handleUpdatePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_UPLOAD", "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			WriteJSON(w, http.StatusOK, map[string]string{"url": ""})
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_UPLOAD", "invalid photo upload")
		return
	}
	defer file.Close()

	// The object key keeps only the base name; path segments in a client
	// filename must not escape the per-user prefix.
	filename := filepath.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")

	url, err := h.svc.UpdatePhoto(r.Context(), getUserID(r), r.Header.Get(accessTokenHeader), filename, contentType, file)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// handleProfileError keeps the failure surface uniform: every profile write
// failure, partial or total, reads the same to the client.
func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProfileUpdate):
		WriteError(w, http.StatusInternalServerError, "PROFILE_UPDATE_FAILED", "Error updating profile.")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "profile not found")
	default:
		slog.Error("profile internal error", "error", err.Error())
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
