package ideal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	idealmodel "github.com/orviss/podium/backend/internal/model/ideal"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

type stubGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (g *stubGenerator) Generate(_ context.Context, _ []byte, _, _, _ string) (*idealmodel.Result, error) {
	g.mu.Lock()
	g.calls++
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	if g.err != nil {
		return nil, g.err
	}
	return &idealmodel.Result{
		AudioURL:              "/api/ideal/audio/clip-1",
		OriginalTranscription: "um so today I want to talk",
		ImprovedSpeech:        "Today, I want to talk about focus.",
		Summary:               "Removed fillers.",
	}, nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestTriggerHappyPath(t *testing.T) {
	wf := NewWorkflow(&stubFetcher{data: bytes.Repeat([]byte{0x1}, 8<<20)}, &stubGenerator{})

	status := wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig", Filename: "speech.mp4", MIMEType: "video/mp4"})

	if status.Phase != PhaseDone {
		t.Fatalf("phase = %s, want done", status.Phase)
	}
	result := wf.Result()
	if result == nil || result.ImprovedSpeech == "" || result.AudioURL == "" {
		t.Fatalf("result = %+v", result)
	}
}

func TestTriggerEmptyMedia(t *testing.T) {
	wf := NewWorkflow(&stubFetcher{data: nil}, &stubGenerator{})

	status := wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"})

	if status.Phase != PhaseFailed || status.Reason != FailureEmptyMedia {
		t.Fatalf("status = %+v", status)
	}
}

func TestTriggerSizeLimit(t *testing.T) {
	gen := &stubGenerator{}
	wf := NewWorkflow(&stubFetcher{data: bytes.Repeat([]byte{0x1}, 12<<20)}, gen)

	status := wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"})

	if status.Phase != PhaseFailed || status.Reason != FailureSizeLimit {
		t.Fatalf("status = %+v", status)
	}
	if !strings.Contains(status.Message, "12.00 MB") || !strings.Contains(status.Message, "11 MB") {
		t.Fatalf("size message = %q", status.Message)
	}
	if gen.callCount() != 0 {
		t.Fatal("generator dispatched for oversized media")
	}
}

func TestTriggerFetchFailure(t *testing.T) {
	wf := NewWorkflow(&stubFetcher{err: context.DeadlineExceeded}, &stubGenerator{})

	status := wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"})

	if status.Phase != PhaseFailed || status.Reason != FailureFetch {
		t.Fatalf("status = %+v", status)
	}
}

func TestTriggerNoOpWhileGenerating(t *testing.T) {
	block := make(chan struct{})
	gen := &stubGenerator{block: block}
	wf := NewWorkflow(&stubFetcher{data: []byte("media")}, gen)

	done := make(chan Status, 1)
	go func() { done <- wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"}) }()

	deadline := time.Now().Add(time.Second)
	for wf.Status().Phase != PhaseGenerating {
		if time.Now().After(deadline) {
			t.Fatal("workflow never reached generating")
		}
		time.Sleep(time.Millisecond)
	}

	status := wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"})
	if status.Phase != PhaseGenerating {
		t.Fatalf("re-trigger status = %+v", status)
	}
	if gen.callCount() != 1 {
		t.Fatalf("generator dispatched %d times, want 1", gen.callCount())
	}

	close(block)
	if final := <-done; final.Phase != PhaseDone {
		t.Fatalf("final status = %+v", final)
	}
}

func TestTriggerRetryAfterFailure(t *testing.T) {
	fetcher := &stubFetcher{err: context.DeadlineExceeded}
	wf := NewWorkflow(fetcher, &stubGenerator{})
	ctx := context.Background()

	if status := wf.Trigger(ctx, TriggerRequest{MediaRef: "blob:orig"}); status.Phase != PhaseFailed {
		t.Fatalf("status = %+v", status)
	}

	fetcher.err = nil
	fetcher.data = []byte("media")
	if status := wf.Trigger(ctx, TriggerRequest{MediaRef: "blob:orig"}); status.Phase != PhaseDone {
		t.Fatalf("retry status = %+v", status)
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	wf := NewWorkflow(&stubFetcher{data: []byte("media")}, &stubGenerator{})
	ctx := context.Background()

	wf.Trigger(ctx, TriggerRequest{MediaRef: "blob:orig"})
	wf.Reset()

	if wf.Status().Phase != PhaseIdle {
		t.Fatalf("phase after reset = %s", wf.Status().Phase)
	}
	if wf.Result() != nil {
		t.Fatal("result survived reset")
	}
}

func TestSubscribeSeesTransitions(t *testing.T) {
	wf := NewWorkflow(&stubFetcher{data: []byte("media")}, &stubGenerator{})
	ch, cancel := wf.Subscribe()
	defer cancel()

	wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"})

	seen := map[Phase]bool{}
	for {
		select {
		case status := <-ch:
			seen[status.Phase] = true
			if status.Phase == PhaseDone {
				for _, phase := range []Phase{PhaseFetching, PhaseValidating, PhaseGenerating, PhaseDone} {
					if !seen[phase] {
						t.Fatalf("missing %s transition, saw %v", phase, seen)
					}
				}
				return
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for transitions")
		}
	}
}

func TestGenerationFailureSurfacesWrappedMessage(t *testing.T) {
	gen := &stubGenerator{err: context.DeadlineExceeded}
	wf := NewWorkflow(&stubFetcher{data: []byte("media")}, gen)

	status := wf.Trigger(context.Background(), TriggerRequest{MediaRef: "blob:orig"})

	if status.Phase != PhaseFailed {
		t.Fatalf("status = %+v", status)
	}
	if !strings.Contains(status.Message, "generation failed") {
		t.Fatalf("message = %q", status.Message)
	}
}
