package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"rvpark/src/types"

	"github.com/tidwall/gjson"
)

var llmHTTPClient = &http.Client{Timeout: 20 * time.Second}

// NewLLMHTTPClient Replace the outbound client, used by tests to point at
// a stub server.
func NewLLMHTTPClient(c *http.Client) *http.Client {
	llmHTTPClient = c
	return llmHTTPClient
}

// ChatCompletion proxies the widget's message log to the hosted
// chat-completion API. Text in, text out; the provider owns all language
// generation.
func ChatCompletion(ctx context.Context, system string, messages []types.ChatMessage) (string, error) {
	apiURL := os.Getenv("LLM_API_URL")
	apiKey := os.Getenv("LLM_API_KEY")
	model := os.Getenv("LLM_MODEL")

	payload := []map[string]string{{"role": "system", "content": system}}
	for _, m := range messages {
		payload = append(payload, map[string]string{"role": m.Role, "content": m.Content})
	}
	body, err := json.Marshal(map[string]any{
		"model":      model,
		"messages":   payload,
		"max_tokens": 400,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))

	resp, err := llmHTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[llm] provider returned %d: %s\n", resp.StatusCode, string(raw))
		return "", fmt.Errorf("chat provider returned status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("chat provider returned invalid json")
	}
	content := gjson.GetBytes(raw, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("chat provider returned no message content")
	}
	return content.String(), nil
}
