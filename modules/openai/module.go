// Package openai provides the text and image generator handlers backed by
// the OpenAI HTTP API.
package openai

import (
	"fmt"
	"os"
	"time"

	"resty.dev/v3"

	"github.com/vk/mediaflowgo/internal/registry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// requestTimeout bounds a single generation call; image generation is slow.
const requestTimeout = 5 * time.Minute

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the text and image generator handlers.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("generate-text", &registry.RegisteredGenerator{Fn: onGenerateText})
	r.RegisterGenerator("generate-image", &registry.RegisteredGenerator{Fn: onGenerateImage})
}

// newClient builds a resty client from the environment. Credentials are read
// lazily per call so a flow with no OpenAI nodes never needs them.
func newClient() (*resty.Client, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(key).
		SetTimeout(requestTimeout)
	return client, nil
}

// apiError is the error body the OpenAI API returns on non-2xx responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (e *apiError) message(status string) string {
	if e != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return status
}
