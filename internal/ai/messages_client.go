package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const apiVersion = "2023-06-01"

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// MessagesClient speaks the messages wire format: a request carries
// {model, max_tokens, system, messages} and the reply body holds an array of
// typed content blocks.
type MessagesClient struct {
	httpClient *http.Client
}

func NewMessagesClient() *MessagesClient {
	return &MessagesClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete returns the first text block of the response, or "" when the
// model leads with a non-text block. Callers decide what to substitute.
func (c *MessagesClient) Complete(ctx context.Context, cfg ChatConfig, system string, messages []ChatMessage) (string, error) {
	reqBody := map[string]interface{}{
		"model":      cfg.Model,
		"max_tokens": cfg.MaxTokens,
		"system":     system,
		"messages":   messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal model request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build model request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read model response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("model response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Content []contentBlock `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse model json failed: %w", err)
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Type != "text" {
		return "", nil
	}
	return parsed.Content[0].Text, nil
}

// StreamComplete relays text deltas as they arrive and returns the
// concatenated reply. The stream carries typed SSE events; only
// content_block_delta payloads with text deltas contribute output.
func (c *MessagesClient) StreamComplete(
	ctx context.Context,
	cfg ChatConfig,
	system string,
	messages []ChatMessage,
	onChunk func(chunk string) error,
) (string, error) {
	reqBody := map[string]interface{}{
		"model":      cfg.Model,
		"max_tokens": cfg.MaxTokens,
		"system":     system,
		"messages":   messages,
		"stream":     true,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal model stream request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build model stream request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model stream status %d: %s", resp.StatusCode, string(raw))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var full strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event struct {
			Type  string `json:"type"`
			Delta struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"delta"`
		}
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			continue
		}
		if event.Type == "message_stop" {
			break
		}
		if event.Type != "content_block_delta" || event.Delta.Type != "text_delta" {
			continue
		}
		if event.Delta.Text == "" {
			continue
		}

		full.WriteString(event.Delta.Text)
		if err := onChunk(event.Delta.Text); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan model stream failed: %w", err)
	}
	return full.String(), nil
}
