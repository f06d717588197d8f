package ideal

// KeyChange records one edit the improver made and why.
type KeyChange struct {
	Change string `json:"change"`
	Reason string `json:"reason"`
}

// Improvement is the structured output of the speech improver.
type Improvement struct {
	ImprovedSpeech string      `json:"improved_speech"`
	Suggestions    []string    `json:"suggestions"`
	KeyChanges     []KeyChange `json:"key_changes"`
	Summary        string      `json:"summary"`
}

// Result is the finished ideal-speech payload: the re-voiced audio plus the
// transcription and rewrite that produced it.
type Result struct {
	AudioURL              string      `json:"audioUrl"`
	OriginalTranscription string      `json:"original_transcription"`
	ImprovedSpeech        string      `json:"improved_speech"`
	Suggestions           []string    `json:"suggestions"`
	KeyChanges            []KeyChange `json:"key_changes"`
	Summary               string      `json:"summary"`
}
