package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/siherrmann/lexent/helper"
)

// Ollama calls the chat endpoint of an Ollama server.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

// NewOllama creates a client for the server at host. The host may omit the
// scheme. Model is used when the call options do not name one.
func NewOllama(host string, model string) *Ollama {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host != "" && !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return &Ollama{
		baseURL: host,
		model:   model,
		client:  &http.Client{},
	}
}

// Model returns the default model of the client.
func (o *Ollama) Model() string {
	return o.model
}

// Adjudicate sends prompt as a single user message and returns the content of
// the answer. Timeouts are taken from ctx.
func (o *Ollama) Adjudicate(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = o.model
	}

	payload, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  map[string]any{"temperature": opts.Temperature},
	})
	if err != nil {
		return "", helper.NewError("marshal chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", helper.NewError("create chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", helper.NewError("ollama chat request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", helper.NewError("read chat response", err)
	}
	if resp.StatusCode >= 400 {
		return "", helper.NewError("ollama chat", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", helper.NewError("decode chat response", err)
	}
	if parsed.Error != "" {
		return "", helper.NewError("ollama chat", fmt.Errorf("%s", parsed.Error))
	}

	return parsed.Message.Content, nil
}
