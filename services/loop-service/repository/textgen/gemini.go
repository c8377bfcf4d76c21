// Package textgen talks to a hosted language model over its REST API
package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"loop/pkg/httpclient"
	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

const apiKeyHeader = "x-goog-api-key"

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Gemini implements repository.TextGenerator against the generateContent endpoints.
type Gemini struct {
	client httpclient.HTTPClient
	model  string
	apiKey string
	logger logger.LoggerInterface
}

var _ repository.TextGenerator = (*Gemini)(nil)

// NewGemini creates the adapter. client carries the base URL, e.g.
// https://generativelanguage.googleapis.com/v1beta. With an empty apiKey every call
// returns domain.ErrAssistantUnavailable without touching the network.
func NewGemini(client httpclient.HTTPClient, model, apiKey string, appLogger logger.LoggerInterface) *Gemini {
	return &Gemini{
		client: client,
		model:  model,
		apiKey: apiKey,
		logger: appLogger.With("component", "textgen"),
	}
}

// Enabled reports whether an API key is configured
func (g *Gemini) Enabled() bool {
	return g.apiKey != ""
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
}

func (g *Gemini) Chat(ctx context.Context, systemInstruction string, history []model.Turn, message string) (string, error) {
	req := generateRequest{Contents: make([]content, 0, len(history)+1)}
	if systemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}
	for _, turn := range history {
		req.Contents = append(req.Contents, content{Role: turn.Role, Parts: []part{{Text: turn.Text}}})
	}
	req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: message}}})
	return g.generate(ctx, req)
}

func (g *Gemini) Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) error {
	if !g.Enabled() {
		return domain.ErrAssistantUnavailable
	}

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	path := g.path("streamGenerateContent") + "?alt=sse"

	err := g.client.StreamEvents(ctx, path, req, g.headers(), func(data []byte) error {
		var resp generateResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		if chunk := resp.text(); chunk != "" {
			return onChunk(chunk)
		}
		return nil
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Streaming generation failed", "model", g.model, "error", err)
		return err
	}
	return nil
}

func (g *Gemini) generate(ctx context.Context, req generateRequest) (string, error) {
	if !g.Enabled() {
		return "", domain.ErrAssistantUnavailable
	}

	var resp generateResponse
	if err := g.client.PostJSON(ctx, g.path("generateContent"), req, &resp, g.headers()); err != nil {
		g.logger.ErrorContext(ctx, "Generation request failed", "model", g.model, "error", err)
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		g.logger.WarnContext(ctx, "Prompt blocked", "model", g.model, "reason", resp.PromptFeedback.BlockReason)
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	text := resp.text()
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

func (g *Gemini) path(method string) string {
	return "/models/" + url.PathEscape(g.model) + ":" + method
}

func (g *Gemini) headers() map[string]string {
	return map[string]string{apiKeyHeader: g.apiKey}
}
