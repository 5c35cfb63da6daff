package openai

import (
	"context"
	"fmt"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/registry"
)

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n,omitempty"`
	Size   string `json:"size,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// onGenerateImage is the handler for the 'generate-image' node kind.
func onGenerateImage(ctx context.Context, req *registry.Request) (any, error) {
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
	size, _ := req.Node.String("size")
	body := imageRequest{
		Model:  model,
		Prompt: prompt,
		Size:   size,
	}
	logger.Debug("Requesting image generation.", "node", req.Node.ID, "model", body.Model)

	var out imageResponse
	var apiErr apiError
	res, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/images/generations")
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("image generation failed: %s", apiErr.message(res.Status()))
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	images := make([]any, 0, len(out.Data))
	for _, d := range out.Data {
		switch {
		case d.URL != "":
			images = append(images, d.URL)
		case d.B64JSON != "":
			images = append(images, map[string]any{
				"data":     d.B64JSON,
				"mimeType": "image/png",
			})
		}
	}
	if len(images) == 1 {
		return images[0], nil
	}
	return images, nil
}
