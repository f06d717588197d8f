// Package media resolves the original uploaded recording for the
// ideal-speech workflow.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher downloads the bytes behind a media reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// HTTPFetcher fetches media over HTTP(S) from the URL recorded at upload
// time. It always pulls the original file reference, never a re-encoded
// playback copy.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher with the given timeout in seconds.
func NewHTTPFetcher(timeoutSeconds int) *HTTPFetcher {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}
	return &HTTPFetcher{client: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}}
}

// Fetch downloads the media bytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid media reference: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("media read failed: %w", err)
	}
	return data, nil
}

// InferMIMEType maps a media filename to its MIME type, defaulting to mp4
// for unknown extensions.
func InferMIMEType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	default:
		return "video/mp4"
	}
}
