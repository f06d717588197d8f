package ideal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	idealmodel "github.com/orviss/podium/backend/internal/model/ideal"
	"github.com/orviss/podium/backend/internal/registry"
	idealservice "github.com/orviss/podium/backend/internal/service/ideal"
	"github.com/orviss/podium/backend/internal/service/speech"
)

type stubFetcher struct {
	data []byte
}

func (f *stubFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f.data, nil
}

type stubGenerator struct {
	result *idealmodel.Result
}

func (g *stubGenerator) Generate(ctx context.Context, data []byte, filename, mimeType, focus string) (*idealmodel.Result, error) {
	return g.result, nil
}

func setupRouter(fetcher *stubFetcher, generator *stubGenerator, withMedia bool) (*chi.Mux, *idealservice.Workflow, *speech.ClipStore) {
	reg := registry.NewMemoryStore()
	if withMedia {
		_ = reg.Set(registry.KeyOriginalURL, "https://cdn.example.com/raw.webm")
		_ = reg.Set(registry.KeyOriginalFilename, "raw.webm")
		_ = reg.Set(registry.KeyOriginalMIMEType, "video/webm")
	}

	workflow := idealservice.NewWorkflow(fetcher, generator)
	clips := speech.NewClipStore()
	handler := New(workflow, reg, clips)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, workflow, clips
}

func waitForPhase(t *testing.T, workflow *idealservice.Workflow, phase idealservice.Phase) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if workflow.Status().Phase == phase {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("workflow never reached %q, stuck at %q", phase, workflow.Status().Phase)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGenerateRunsToCompletion(t *testing.T) {
	result := &idealmodel.Result{AudioURL: "/api/ideal/audio/clip-1", ImprovedSpeech: "Better."}
	r, workflow, _ := setupRouter(&stubFetcher{data: []byte("media")}, &stubGenerator{result: result}, true)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/ideal/generate", nil))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	waitForPhase(t, workflow, idealservice.PhaseDone)

	out := httptest.NewRecorder()
	r.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/ideal/result", nil))
	if out.Code != http.StatusOK {
		t.Fatalf("result: %d", out.Code)
	}

	var got idealmodel.Result
	if err := json.Unmarshal(out.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.AudioURL != result.AudioURL {
		t.Fatalf("audio url = %q", got.AudioURL)
	}
}

func TestGenerateWithoutRegisteredMedia(t *testing.T) {
	r, _, _ := setupRouter(&stubFetcher{}, &stubGenerator{}, false)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/ideal/generate", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestResultBeforeCompletion(t *testing.T) {
	r, _, _ := setupRouter(&stubFetcher{}, &stubGenerator{}, true)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ideal/result", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStatusReportsFailure(t *testing.T) {
	// Empty media fails validation.
	r, workflow, _ := setupRouter(&stubFetcher{data: nil}, &stubGenerator{}, true)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/ideal/generate", nil))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("trigger: %d", resp.Code)
	}

	waitForPhase(t, workflow, idealservice.PhaseFailed)

	out := httptest.NewRecorder()
	r.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/ideal/status", nil))

	var status idealservice.Status
	if err := json.Unmarshal(out.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if status.Reason != idealservice.FailureEmptyMedia {
		t.Fatalf("reason = %q", status.Reason)
	}
	if status.Message == "" {
		t.Fatal("expected guidance message")
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	r, workflow, _ := setupRouter(&stubFetcher{data: nil}, &stubGenerator{}, true)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ideal/generate", nil))
	waitForPhase(t, workflow, idealservice.PhaseFailed)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/ideal/reset", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("reset: %d", resp.Code)
	}
	if workflow.Status().Phase != idealservice.PhaseIdle {
		t.Fatalf("phase = %q, want idle", workflow.Status().Phase)
	}
}

func TestAudioServesClip(t *testing.T) {
	r, _, clips := setupRouter(&stubFetcher{}, &stubGenerator{}, true)
	clipID := clips.Put([]byte("audio-bytes"), "mp3")

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ideal/audio/"+clipID, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("audio: %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "audio/mp3" {
		t.Fatalf("content type = %q", ct)
	}
	if resp.Body.String() != "audio-bytes" {
		t.Fatalf("body = %q", resp.Body.String())
	}
}

func TestAudioUnknownClip(t *testing.T) {
	r, _, _ := setupRouter(&stubFetcher{}, &stubGenerator{}, true)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ideal/audio/missing", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
