package media

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/orviss/podium/backend/internal/registry"
	mediaservice "github.com/orviss/podium/backend/internal/service/media"
	"github.com/orviss/podium/backend/pkg/utils"
)

// Handler records the media references for the current submission. The
// upload itself happens elsewhere; this only registers where the original
// lives so the ideal-speech workflow can fetch it later.
type Handler struct {
	registry registry.Store
	reset    func()
}

// New creates the media handler. reset is invoked alongside the registry
// reset so dependent state (the ideal workflow) starts fresh too.
func New(reg registry.Store, reset func()) *Handler {
	return &Handler{registry: reg, reset: reset}
}

// RegisterRoutes mounts the media registry endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/media/register", h.handleRegister)
	r.Post("/media/reset", h.handleReset)
}

// handleRegister writes the submission's media references, once each.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PlaybackURL      string `json:"playback_url"`
		OriginalURL      string `json:"original_url"`
		OriginalFilename string `json:"original_filename"`
		OriginalMIMEType string `json:"original_mime_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.OriginalURL) == "" {
		utils.RespondError(w, http.StatusBadRequest, "original_url is required")
		return
	}

	mimeType := payload.OriginalMIMEType
	if mimeType == "" {
		mimeType = mediaservice.InferMIMEType(payload.OriginalFilename)
	}

	writes := []struct {
		key   registry.Key
		value string
	}{
		{registry.KeyOriginalURL, payload.OriginalURL},
		{registry.KeyPlaybackURL, payload.PlaybackURL},
		{registry.KeyOriginalFilename, payload.OriginalFilename},
		{registry.KeyOriginalMIMEType, mimeType},
	}
	for _, write := range writes {
		if write.value == "" {
			continue
		}
		if err := h.registry.Set(write.key, write.value); err != nil {
			if errors.Is(err, registry.ErrAlreadyWritten) {
				utils.RespondError(w, http.StatusConflict, "media already registered for this submission")
				return
			}
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// handleReset clears the submission for a new recording.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.registry.Reset()
	if h.reset != nil {
		h.reset()
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
