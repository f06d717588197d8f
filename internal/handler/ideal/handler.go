package ideal

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/orviss/podium/backend/internal/registry"
	idealservice "github.com/orviss/podium/backend/internal/service/ideal"
	"github.com/orviss/podium/backend/internal/service/speech"
	"github.com/orviss/podium/backend/pkg/utils"
)

// Handler exposes the ideal-speech workflow over HTTP and websocket.
type Handler struct {
	workflow *idealservice.Workflow
	registry registry.Store
	clips    *speech.ClipStore
	upgrader websocket.Upgrader
}

// New creates the ideal-speech handler.
func New(workflow *idealservice.Workflow, reg registry.Store, clips *speech.ClipStore) *Handler {
	return &Handler{
		workflow: workflow,
		registry: reg,
		clips:    clips,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the ideal-speech endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ideal", func(idealRouter chi.Router) {
		idealRouter.Post("/generate", h.handleGenerate)
		idealRouter.Get("/status", h.handleStatus)
		idealRouter.Get("/result", h.handleResult)
		idealRouter.Post("/reset", h.handleReset)
		idealRouter.Get("/audio/{clipID}", h.handleAudio)
		idealRouter.Get("/ws", h.handleStatusStream)
	})
}

// handleGenerate kicks off a run against the original uploaded media. The
// workflow's own guard makes duplicate triggers harmless.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ImprovementFocus string `json:"improvement_focus"`
	}
	if r.Body != nil {
		// The focus field is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	mediaRef, ok := h.registry.Get(registry.KeyOriginalURL)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no recording registered for this submission")
		return
	}
	filename, _ := h.registry.Get(registry.KeyOriginalFilename)
	mimeType, _ := h.registry.Get(registry.KeyOriginalMIMEType)

	req := idealservice.TriggerRequest{
		MediaRef: mediaRef,
		Filename: filename,
		MIMEType: mimeType,
		Focus:    payload.ImprovementFocus,
	}

	// Detach from the request context: the run outlives this response and
	// clients follow progress via /status or the websocket.
	go h.workflow.Trigger(context.Background(), req)

	utils.RespondJSON(w, http.StatusAccepted, h.workflow.Status())
}

// handleStatus reports the current workflow phase.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.workflow.Status())
}

// handleResult returns the finished payload.
func (h *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	result := h.workflow.Result()
	if result == nil {
		utils.RespondError(w, http.StatusNotFound, "ideal speech is not ready")
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// handleReset returns the workflow to idle for a fresh run.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.workflow.Reset()
	utils.RespondJSON(w, http.StatusOK, h.workflow.Status())
}

// handleAudio serves a generated clip.
func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	clipID := chi.URLParam(r, "clipID")

	clip, err := h.clips.Get(clipID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	format := clip.Format
	if format == "" {
		format = "mpeg"
	}
	w.Header().Set("Content-Type", "audio/"+format)
	w.Header().Set("Content-Length", strconv.Itoa(len(clip.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(clip.Data); err != nil {
		log.Printf("[ideal] failed to write audio response: %v", err)
	}
}

// handleStatusStream pushes workflow transitions over a websocket until the
// client disconnects.
func (h *Handler) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ideal] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	statuses, cancel := h.workflow.Subscribe()
	defer cancel()

	// Reader goroutine detects the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case status := <-statuses:
			if err := conn.WriteJSON(status); err != nil {
				log.Printf("[ideal] websocket write failed: %v", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
