// Package replicate provides the video and 3d generator handlers backed by
// the Replicate prediction API. Predictions are created and then polled
// until they settle.
package replicate

import (
	"context"
	"fmt"
	"os"
	"time"

	"resty.dev/v3"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/handle"
	"github.com/vk/mediaflowgo/internal/payload"
	"github.com/vk/mediaflowgo/internal/registry"
)

const defaultBaseURL = "https://api.replicate.com/v1"

const (
	defaultVideoModel = "minimax/video-01"
	defaultModel3D    = "firtoz/trellis"
)

// pollInterval is the delay between prediction status checks.
const pollInterval = 2 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the video and 3d generator handlers.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("generate-video", &registry.RegisteredGenerator{Fn: onGenerateVideo})
	r.RegisterGenerator("generate-3d", &registry.RegisteredGenerator{Fn: onGenerate3D})
}

func newClient() (*resty.Client, error) {
	token := os.Getenv("REPLICATE_API_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("REPLICATE_API_TOKEN is not set")
	}
	baseURL := os.Getenv("REPLICATE_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetTimeout(time.Minute)
	return client, nil
}

// prediction is the subset of the Replicate prediction object we consume.
type prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output any    `json:"output"`
	Error  any    `json:"error"`
}

type apiError struct {
	Detail string `json:"detail"`
}

func (e *apiError) message(status string) string {
	if e != nil && e.Detail != "" {
		return e.Detail
	}
	return status
}

// onGenerateVideo is the handler for the 'generate-video' node kind.
func onGenerateVideo(ctx context.Context, req *registry.Request) (any, error) {
	input := map[string]any{"prompt": req.Prompt()}
	if env := payload.Normalize(req.Inputs.Value("image"), handle.TypeImage); !env.IsNull() {
		if refs := env.Refs(); len(refs) > 0 {
			input["first_frame_image"] = refs[0]
		}
	}
	return generate(ctx, req, defaultVideoModel, input)
}

// onGenerate3D is the handler for the 'generate-3d' node kind.
func onGenerate3D(ctx context.Context, req *registry.Request) (any, error) {
	input := map[string]any{}
	if prompt := req.Prompt(); prompt != "" {
		input["prompt"] = prompt
	}
	if env := payload.Normalize(req.Inputs.Value("image"), handle.TypeImage); !env.IsNull() {
		if refs := env.Refs(); len(refs) > 0 {
			input["image"] = refs[0]
		}
	}
	return generate(ctx, req, defaultModel3D, input)
}

// generate creates a prediction for the node's model and polls it to
// completion. It returns the prediction output untouched; the caller's
// normalizer reduces it to a reference.
func generate(ctx context.Context, req *registry.Request, defaultModel string, input map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)

	client, err := newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	model, ok := req.Node.String("model")
	if !ok {
		model = defaultModel
	}
	logger.Debug("Creating prediction.", "node", req.Node.ID, "model", model)

	var created prediction
	var apiErr apiError
	res, err := client.R().
		SetContext(ctx).
		SetBody(map[string]any{"input": input}).
		SetResult(&created).
		SetError(&apiErr).
		Post(fmt.Sprintf("/models/%s/predictions", model))
	if err != nil {
		return nil, fmt.Errorf("creating prediction: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("creating prediction failed: %s", apiErr.message(res.Status()))
	}

	return poll(ctx, client, created)
}

// poll checks the prediction status until it settles or the context ends.
func poll(ctx context.Context, client *resty.Client, p prediction) (any, error) {
	logger := ctxlog.FromContext(ctx)

	for {
		switch p.Status {
		case "succeeded":
			return p.Output, nil
		case "failed", "canceled":
			return nil, fmt.Errorf("prediction %s %s: %v", p.ID, p.Status, p.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		var next prediction
		var apiErr apiError
		res, err := client.R().
			SetContext(ctx).
			SetResult(&next).
			SetError(&apiErr).
			Get("/predictions/" + p.ID)
		if err != nil {
			return nil, fmt.Errorf("polling prediction %s: %w", p.ID, err)
		}
		if res.IsError() {
			return nil, fmt.Errorf("polling prediction %s failed: %s", p.ID, apiErr.message(res.Status()))
		}
		logger.Debug("Prediction status.", "id", next.ID, "status", next.Status)
		p = next
	}
}
