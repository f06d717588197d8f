// Package ideal runs the gated pipeline that turns the original recording
// into an improved, re-voiced speech.
package ideal

import (
	"context"
	"fmt"
	"log"
	"sync"

	idealmodel "github.com/orviss/podium/backend/internal/model/ideal"
	"github.com/orviss/podium/backend/internal/service/media"
)

// MaxMediaBytes caps how large an upload the generation service accepts.
const MaxMediaBytes = 11 * 1024 * 1024

// Phase enumerates the workflow lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFetching   Phase = "fetching"
	PhaseValidating Phase = "validating"
	PhaseGenerating Phase = "generating"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// FailureReason classifies why a run failed.
type FailureReason string

const (
	FailureFetch      FailureReason = "fetch_failure"
	FailureEmptyMedia FailureReason = "empty_media"
	FailureSizeLimit  FailureReason = "size_limit_exceeded"
)

// Status is the externally visible workflow state. Message carries the
// user-facing guidance text when Phase is failed.
type Status struct {
	Phase   Phase         `json:"phase"`
	Reason  FailureReason `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
}

// TriggerRequest identifies the media recorded at submission time.
type TriggerRequest struct {
	MediaRef string
	Filename string
	MIMEType string
	Focus    string
}

// Generator produces the ideal speech from validated media bytes.
type Generator interface {
	Generate(ctx context.Context, data []byte, filename, mimeType, focus string) (*idealmodel.Result, error)
}

// Workflow is the fetch -> validate -> generate state machine. A single
// guard serializes runs: triggering while a run is in flight is a no-op.
type Workflow struct {
	fetcher   media.Fetcher
	generator Generator

	mu          sync.Mutex
	status      Status
	result      *idealmodel.Result
	subscribers map[chan Status]struct{}
}

// NewWorkflow builds an idle workflow.
func NewWorkflow(fetcher media.Fetcher, generator Generator) *Workflow {
	return &Workflow{
		fetcher:     fetcher,
		generator:   generator,
		status:      Status{Phase: PhaseIdle},
		subscribers: make(map[chan Status]struct{}),
	}
}

// Trigger runs the pipeline to completion and returns the final status.
// Valid only from idle or failed; any other phase returns the current
// status without dispatching anything.
func (w *Workflow) Trigger(ctx context.Context, req TriggerRequest) Status {
	w.mu.Lock()
	if w.status.Phase != PhaseIdle && w.status.Phase != PhaseFailed {
		current := w.status
		w.mu.Unlock()
		return current
	}
	w.result = nil
	w.transitionLocked(Status{Phase: PhaseFetching})
	w.mu.Unlock()

	data, err := w.fetcher.Fetch(ctx, req.MediaRef)
	if err != nil {
		log.Printf("[ideal] media fetch failed: %v", err)
		return w.fail(FailureFetch, "We couldn't retrieve your original recording. Please try again.")
	}

	w.transition(Status{Phase: PhaseValidating})

	if len(data) == 0 {
		return w.fail(FailureEmptyMedia, "The uploaded recording contains no data. Please record and upload again.")
	}
	if len(data) > MaxMediaBytes {
		sizeMB := float64(len(data)) / (1024 * 1024)
		return w.fail(FailureSizeLimit, fmt.Sprintf("Your video is %.2f MB, which exceeds the 11 MB limit. Please upload a shorter recording.", sizeMB))
	}

	w.transition(Status{Phase: PhaseGenerating})

	result, err := w.generator.Generate(ctx, data, req.Filename, req.MIMEType, req.Focus)
	if err != nil {
		log.Printf("[ideal] generation failed: %v", err)
		return w.fail(FailureFetch, fmt.Sprintf("Ideal speech generation failed: %v", err))
	}

	w.mu.Lock()
	w.result = result
	w.transitionLocked(Status{Phase: PhaseDone})
	final := w.status
	w.mu.Unlock()

	log.Printf("[ideal] generation complete, audio=%s", result.AudioURL)
	return final
}

// Reset returns a finished or failed workflow to idle for a fresh run. A
// reset while a run is in flight is a no-op.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.Phase != PhaseDone && w.status.Phase != PhaseFailed {
		return
	}
	w.result = nil
	w.transitionLocked(Status{Phase: PhaseIdle})
}

// Status returns the current workflow state.
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Result returns the finished payload, nil until the workflow is done.
func (w *Workflow) Result() *idealmodel.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Subscribe registers for status transitions. The returned cancel func must
// be called to release the channel.
func (w *Workflow) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 8)

	w.mu.Lock()
	w.subscribers[ch] = struct{}{}
	ch <- w.status
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		delete(w.subscribers, ch)
		w.mu.Unlock()
	}
	return ch, cancel
}

func (w *Workflow) fail(reason FailureReason, message string) Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transitionLocked(Status{Phase: PhaseFailed, Reason: reason, Message: message})
	return w.status
}

func (w *Workflow) transition(status Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transitionLocked(status)
}

// transitionLocked updates the status and notifies subscribers without
// blocking on slow ones. Callers hold w.mu.
func (w *Workflow) transitionLocked(status Status) {
	w.status = status
	for ch := range w.subscribers {
		select {
		case ch <- status:
		default:
		}
	}
}
