package ideal

import (
	"context"
	"fmt"
	"log"
	"strings"

	idealmodel "github.com/orviss/podium/backend/internal/model/ideal"
	"github.com/orviss/podium/backend/internal/service/speech"
)

// Transcriber turns media bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, filename, mimeType string) (string, error)
}

// Improver rewrites a transcription into its ideal form.
type Improver interface {
	ImproveSpeech(ctx context.Context, transcription, focus string) (*idealmodel.Improvement, error)
}

// Synthesizer renders text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (data []byte, format string, err error)
}

// SpeechGenerator chains transcribe -> improve -> synthesize and stores the
// resulting clip for playback.
type SpeechGenerator struct {
	transcriber  Transcriber
	improver     Improver
	synthesizer  Synthesizer
	clips        *speech.ClipStore
	audioURLBase string
}

// NewSpeechGenerator wires the pipeline. audioURLBase is the route prefix
// clips are served from, e.g. "/api/ideal/audio".
func NewSpeechGenerator(transcriber Transcriber, improver Improver, synthesizer Synthesizer, clips *speech.ClipStore, audioURLBase string) *SpeechGenerator {
	return &SpeechGenerator{
		transcriber:  transcriber,
		improver:     improver,
		synthesizer:  synthesizer,
		clips:        clips,
		audioURLBase: strings.TrimSuffix(audioURLBase, "/"),
	}
}

// Generate runs the full pipeline over validated media bytes.
func (g *SpeechGenerator) Generate(ctx context.Context, data []byte, filename, mimeType, focus string) (*idealmodel.Result, error) {
	transcription, err := g.transcriber.Transcribe(ctx, data, filename, mimeType)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if strings.TrimSpace(transcription) == "" {
		return nil, fmt.Errorf("transcription returned no speech")
	}
	log.Printf("[ideal] transcribed %d bytes into %d chars", len(data), len(transcription))

	improvement, err := g.improver.ImproveSpeech(ctx, transcription, focus)
	if err != nil {
		return nil, fmt.Errorf("speech improvement failed: %w", err)
	}

	audio, format, err := g.synthesizer.Synthesize(ctx, improvement.ImprovedSpeech)
	if err != nil {
		return nil, fmt.Errorf("voice synthesis failed: %w", err)
	}

	clipID := g.clips.Put(audio, format)

	return &idealmodel.Result{
		AudioURL:              g.audioURLBase + "/" + clipID,
		OriginalTranscription: transcription,
		ImprovedSpeech:        improvement.ImprovedSpeech,
		Suggestions:           improvement.Suggestions,
		KeyChanges:            improvement.KeyChanges,
		Summary:               improvement.Summary,
	}, nil
}
