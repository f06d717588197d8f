package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orviss/podium/backend/internal/analysis/score"
	feedbackmodel "github.com/orviss/podium/backend/internal/model/feedback"
	"github.com/orviss/podium/backend/internal/registry"
	"github.com/orviss/podium/backend/internal/timeline"
	"github.com/orviss/podium/backend/pkg/utils"
)

// Handler ingests the analysis result and serves the derived report.
type Handler struct {
	registry registry.Store
}

// New creates the feedback handler.
func New(reg registry.Store) *Handler {
	return &Handler{registry: reg}
}

// RegisterRoutes mounts the feedback endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/feedback", h.handleIngest)
	r.Get("/feedback/report", h.handleReport)
}

// report bundles everything the results page renders.
type report struct {
	Scores          score.Report                  `json:"scores"`
	Timeline        []timeline.Entry              `json:"timeline"`
	OverallFeedback feedbackmodel.OverallFeedback `json:"overall_feedback"`
}

// handleIngest accepts the feedback document for the current submission.
func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var doc feedbackmodel.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid feedback document")
		return
	}

	if err := doc.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := json.Marshal(&doc)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to serialize document")
		return
	}

	if err := h.registry.Set(registry.KeyFeedbackDocument, string(payload)); err != nil {
		if errors.Is(err, registry.ErrAlreadyWritten) {
			utils.RespondError(w, http.StatusConflict, "a feedback document is already loaded for this submission")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, buildReport(&doc))
}

// handleReport recomputes scores and timeline from the stored document.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
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

	utils.RespondJSON(w, http.StatusOK, buildReport(&doc))
}

func buildReport(doc *feedbackmodel.Document) report {
	return report{
		Scores:          score.BuildReport(doc),
		Timeline:        timeline.Build(doc),
		OverallFeedback: doc.OverallFeedback,
	}
}
