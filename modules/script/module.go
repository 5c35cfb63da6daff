// Package script provides the generator handler for user-authored script
// nodes. The script's source is written to a temp file and run under the
// matching interpreter; resolved inputs arrive as a JSON record on stdin and
// whatever the script prints on stdout becomes the node's output.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/payload"
	"github.com/vk/mediaflowgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the script generator handler.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("script", &registry.RegisteredGenerator{Fn: onScript})
}

// interpreters maps a script node's declared language to the command that
// runs it and the source file extension that command expects.
var interpreters = map[string]struct {
	command string
	ext     string
}{
	"python":     {"python3", ".py"},
	"python3":    {"python3", ".py"},
	"bash":       {"bash", ".sh"},
	"sh":         {"sh", ".sh"},
	"javascript": {"node", ".js"},
	"node":       {"node", ".js"},
}

// onScript is the handler for the 'script' node kind.
func onScript(ctx context.Context, req *registry.Request) (any, error) {
	logger := ctxlog.FromContext(ctx)

	code, ok := req.Node.String("code")
	if !ok {
		return nil, fmt.Errorf("script node '%s' has no code", req.Node.ID)
	}
	language, _ := req.Node.String("language")
	interp, ok := interpreters[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("script node '%s': unsupported language '%s'", req.Node.ID, language)
	}

	srcFile, err := writeSource(code, interp.ext)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(filepath.Dir(srcFile))

	stdin, err := json.Marshal(req.Inputs.Plain())
	if err != nil {
		return nil, fmt.Errorf("encoding script inputs: %w", err)
	}
	logger.Debug("Running script.", "node", req.Node.ID, "interpreter", interp.command)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, interp.command, srcFile)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("script failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("script failed: %w", err)
	}

	out := strings.TrimSpace(stdout.String())
	if record, ok := payload.DecodeRecord(out); ok {
		return record, nil
	}
	return out, nil
}

// writeSource persists the script body to a temp file the interpreter can
// load by path.
func writeSource(code, ext string) (string, error) {
	dir, err := os.MkdirTemp("", "mediaflow-script-")
	if err != nil {
		return "", fmt.Errorf("creating script workspace: %w", err)
	}
	path := filepath.Join(dir, "script"+ext)
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("writing script source: %w", err)
	}
	return path, nil
}
