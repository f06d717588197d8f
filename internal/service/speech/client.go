// Package speech talks to the external transcription and voice synthesis
// service and stores generated clips for playback.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/orviss/podium/backend/internal/config"
)

// Client calls the speech service's HTTP API.
type Client struct {
	cfg    config.SpeechConfig
	client *http.Client
}

// NewClient builds a client from the speech configuration.
func NewClient(cfg config.SpeechConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Transcribe posts the media as a multipart upload and returns the text.
func (c *Client) Transcribe(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fw, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err = fw.Write(data); err != nil {
		return "", err
	}
	if err = writer.WriteField("mime_type", mimeType); err != nil {
		return "", err
	}
	if err = writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/transcribe", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcribe %s: %s", resp.Status, string(payload))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("transcribe decode: %w", err)
	}
	return out.Text, nil
}

// Synthesize renders text to audio in the configured voice.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	payload, err := json.Marshal(map[string]string{
		"text":  text,
		"voice": c.cfg.Voice,
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("synthesize %s: %s", resp.Status, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("synthesize read: %w", err)
	}

	format := "mp3"
	if ct := resp.Header.Get("Content-Type"); ct == "audio/wav" {
		format = "wav"
	}
	return audio, format, nil
}
