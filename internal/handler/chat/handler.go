package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/orviss/podium/backend/internal/model/chat"
	feedbackmodel "github.com/orviss/podium/backend/internal/model/feedback"
	"github.com/orviss/podium/backend/internal/registry"
	"github.com/orviss/podium/backend/internal/service/conversation"
	"github.com/orviss/podium/backend/pkg/utils"
)

// Handler drives the feedback conversation over HTTP.
type Handler struct {
	manager  *conversation.Manager
	registry registry.Store
}

// New creates the chat handler.
func New(manager *conversation.Manager, reg registry.Store) *Handler {
	return &Handler{manager: manager, registry: reg}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/start", h.handleStart)
	r.Post("/chat/message", h.handleMessage)
	r.Get("/chat/transcript/{conversationID}", h.handleTranscript)
}

// handleStart initializes the conversation against the loaded document.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.registry.Get(registry.KeyFeedbackDocument)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no feedback document loaded")
		return
	}

	var doc feedbackmodel.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "stored document is corrupt")
		return
	}

	session, err := h.manager.Start(r.Context(), &doc)
	if err != nil {
		// Init failures block the chat feature until the client retries.
		utils.RespondError(w, http.StatusBadGateway, session.InitFailure())
		return
	}

	messages := session.Messages()
	greeting := ""
	if len(messages) > 0 {
		greeting = messages[0].Content
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"conversation_id": session.ConversationID(),
		"message":         greeting,
	})
}

// handleMessage submits one user turn.
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversation_id"`
		UserMessage    string `json:"user_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.manager.Get(payload.ConversationID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := session.Send(r.Context(), payload.UserMessage); err != nil {
		switch {
		case errors.Is(err, conversation.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "user_message is required")
		case errors.Is(err, conversation.ErrNotReady):
			utils.RespondError(w, http.StatusConflict, "a message is already in flight")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	messages := session.Messages()
	reply := ""
	if len(messages) > 0 {
		if last := messages[len(messages)-1]; last.Role == chatmodel.RoleAssistant {
			reply = last.Content
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"assistant_reply": reply})
}

// handleTranscript returns the append-only message log.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	session, err := h.manager.Get(conversationID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"status":          session.Status(),
		"messages":        session.Messages(),
	})
}
