package openai

import (
	"context"
	"fmt"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/payload"
	"github.com/vk/mediaflowgo/internal/registry"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// onGenerateText is the handler for the 'generate-text' node kind.
func onGenerateText(ctx context.Context, req *registry.Request) (any, error) {
	logger := ctxlog.FromContext(ctx)

	client, err := newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	prompt := req.Prompt()
	if prompt == "" {
		return nil, fmt.Errorf("no prompt for node '%s'", req.Node.ID)
	}

	model, _ := req.Node.String("model")
	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	if system, ok := req.Node.String("system"); ok {
		body.Messages = append([]chatMessage{{Role: "system", Content: system}}, body.Messages...)
	}
	logger.Debug("Requesting chat completion.", "node", req.Node.ID, "model", body.Model)

	var out chatResponse
	var apiErr apiError
	res, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("chat completion failed: %s", apiErr.message(res.Status()))
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := out.Choices[0].Message.Content
	if format, _ := req.Node.String("responseFormat"); format == "json" {
		if record, ok := payload.DecodeRecord(content); ok {
			return record, nil
		}
	}
	return content, nil
}
