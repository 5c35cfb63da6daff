package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/graph"
	"github.com/vk/mediaflowgo/internal/handle"
	"github.com/vk/mediaflowgo/internal/payload"
)

// extByMime maps the mime types back-ends actually produce to file
// extensions; anything else lands as .bin.
var extByMime = map[string]string{
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/webp":               ".webp",
	"image/gif":                ".gif",
	"video/mp4":                ".mp4",
	"video/webm":               ".webm",
	"model/gltf-binary":        ".glb",
	"model/gltf+json":          ".gltf",
	"model/obj":                ".obj",
	"text/plain":               ".txt",
	"application/octet-stream": ".bin",
}

// Store writes run artifacts under a local directory.
type Store struct {
	dir    string
	client *resty.Client
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory %s: %w", dir, err)
	}
	client := resty.New().SetTimeout(2 * time.Minute)
	return &Store{dir: dir, client: client}, nil
}

// Close releases the underlying HTTP client.
func (s *Store) Close() {
	s.client.Close()
}

// SaveOutputs persists the primary output of every node in the graph that
// published one. It returns the saved file paths. Individual fetch failures
// are logged and skipped; a run's artifacts are best-effort.
func (s *Store) SaveOutputs(ctx context.Context, g *graph.Graph, handles *handle.Registry) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	var saved []string
	for _, node := range g.Nodes {
		out, ok := handles.PrimaryOutput(node.Kind)
		if !ok {
			continue
		}
		val, ok := node.Get(out.ID)
		if !ok || val == nil {
			continue
		}
		env := payload.Normalize(val, out.Type)
		if env.Empty() {
			continue
		}
		paths, err := s.saveEnvelope(ctx, node.ID, env)
		if err != nil {
			logger.Warn("Failed to save node artifact.", "nodeID", node.ID, "error", err)
			continue
		}
		saved = append(saved, paths...)
	}
	return saved, nil
}

// saveEnvelope writes one node's canonical payload to disk.
func (s *Store) saveEnvelope(ctx context.Context, nodeID string, env payload.Envelope) ([]string, error) {
	if env.Kind() == payload.KindText || env.Kind() == payload.KindRaw {
		p := filepath.Join(s.dir, nodeID+".txt")
		if err := os.WriteFile(p, []byte(env.String()), 0o644); err != nil {
			return nil, err
		}
		return []string{p}, nil
	}

	refs := env.Refs()
	var saved []string
	for i, ref := range refs {
		name := nodeID
		if len(refs) > 1 {
			name = fmt.Sprintf("%s-%d", nodeID, i)
		}
		p, err := s.saveRef(ctx, name, ref)
		if err != nil {
			return saved, err
		}
		saved = append(saved, p)
	}
	return saved, nil
}

// saveRef materializes a single reference string as a local file.
func (s *Store) saveRef(ctx context.Context, name, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return s.saveDataURI(name, ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return s.download(ctx, name, ref)
	case strings.HasPrefix(ref, "file://"):
		return s.copyLocal(name, strings.TrimPrefix(ref, "file://"))
	default:
		return "", fmt.Errorf("unrecognized reference %q", ref)
	}
}

func (s *Store) saveDataURI(name, ref string) (string, error) {
	rest := strings.TrimPrefix(ref, "data:")
	meta, b64, ok := strings.Cut(rest, ",")
	if !ok {
		return "", fmt.Errorf("malformed data URI for %s", name)
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decoding data URI for %s: %w", name, err)
	}
	p := filepath.Join(s.dir, name+extFor(mimeType, ""))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func (s *Store) download(ctx context.Context, name, rawURL string) (string, error) {
	res, err := s.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("fetching %s: status %s", rawURL, res.Status())
	}
	p := filepath.Join(s.dir, name+extFor(res.Header().Get("Content-Type"), rawURL))
	if err := os.WriteFile(p, res.Bytes(), 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func (s *Store) copyLocal(name, src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".bin"
	}
	p := filepath.Join(s.dir, name+ext)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// extFor picks a file extension from a mime type, falling back to the URL's
// own extension, then to .bin.
func extFor(mimeType, rawURL string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	if ext, ok := extByMime[strings.TrimSpace(mimeType)]; ok {
		return ext
	}
	if rawURL != "" {
		if u, err := url.Parse(rawURL); err == nil {
			if ext := path.Ext(u.Path); ext != "" {
				return ext
			}
		}
	}
	return ".bin"
}
