package feedback

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	feedbackmodel "github.com/orviss/podium/backend/internal/model/feedback"
	"github.com/orviss/podium/backend/internal/registry"
)

func setupRouter() (*chi.Mux, registry.Store) {
	reg := registry.NewMemoryStore()
	handler := New(reg)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, reg
}

func validDocument() feedbackmodel.Document {
	metric := func(score int, ranges ...string) feedbackmodel.Metric {
		notes := make([]feedbackmodel.TimestampedNote, 0, len(ranges))
		for _, rng := range ranges {
			notes = append(notes, feedbackmodel.TimestampedNote{TimeRange: rng, Details: []string{"note"}})
		}
		return feedbackmodel.Metric{EffectivenessScore: score, TimestampedFeedback: notes}
	}

	return feedbackmodel.Document{
		NonVerbal: map[string]feedbackmodel.Metric{
			"eye_contact": metric(80, "0:15-0:30"),
			"gestures":    metric(60),
			"posture":     metric(100),
		},
		Delivery: map[string]feedbackmodel.Metric{
			"clarity_enunciation":    metric(70, "0:05"),
			"intonation":             metric(70),
			"eloquence_filler_words": metric(70, "bad range"),
		},
		Content: map[string]feedbackmodel.Metric{
			"organization_flow":     metric(90),
			"persuasiveness_impact": metric(90),
			"clarity_of_message":    metric(90),
		},
	}
}

func TestIngestReturnsReport(t *testing.T) {
	r, _ := setupRouter()
	payload, _ := json.Marshal(validDocument())

	req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Scores struct {
			Overall  int `json:"overall"`
			Sections []struct {
				Score int `json:"score"`
			} `json:"sections"`
		} `json:"scores"`
		Timeline []struct {
			Start float64 `json:"start"`
		} `json:"timeline"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	// Sections: 80, 70, 90 -> overall 80.
	if out.Scores.Overall != 80 {
		t.Fatalf("overall = %d, want 80", out.Scores.Overall)
	}
	// Two parseable ranges; the blank and unparsable ones are dropped.
	if len(out.Timeline) != 2 {
		t.Fatalf("timeline length = %d, want 2", len(out.Timeline))
	}
}

func TestIngestRejectsOutOfRangeScore(t *testing.T) {
	r, _ := setupRouter()
	doc := validDocument()
	doc.Content["clarity_of_message"] = feedbackmodel.Metric{EffectivenessScore: 120}
	payload, _ := json.Marshal(doc)

	req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestIngestIsWriteOnce(t *testing.T) {
	r, _ := setupRouter()
	payload, _ := json.Marshal(validDocument())

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(payload)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first ingest: %d", first.Code)
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(payload)))
	if second.Code != http.StatusConflict {
		t.Fatalf("second ingest: %d, want 409", second.Code)
	}
}

func TestReportWithoutDocument(t *testing.T) {
	r, _ := setupRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/feedback/report", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
