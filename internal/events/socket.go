package events

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// eventName is the socket.io event the UI listens on.
const eventName = "flow:event"

// connectTimeout bounds how long startup waits for the events endpoint.
const connectTimeout = 10 * time.Second

// SocketEmitter streams events to a socket.io endpoint over websocket.
type SocketEmitter struct {
	io *socket.Socket
}

// NewSocketEmitter connects to the given socket.io URL and blocks until the
// connection is established or the timeout elapses. A status endpoint that
// cannot be reached is a configuration error worth failing startup over;
// events lost mid-run are not.
func NewSocketEmitter(ctx context.Context, rawURL string) (*SocketEmitter, error) {
	logger := ctxlog.FromContext(ctx).With("eventsURL", rawURL)
	logger.Debug("Connecting event emitter.")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Event emitter connected.", "sid", io.Id())
		connected <- nil
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				connected <- e
				return
			}
		}
		connected <- fmt.Errorf("socket.io connect error")
	})

	io.Connect()

	opCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out connecting to events endpoint %s", rawURL)
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("connecting to events endpoint: %w", err)
		}
	}
	return &SocketEmitter{io: io}, nil
}

// Emit implements Emitter. Delivery is fire-and-forget.
func (s *SocketEmitter) Emit(ctx context.Context, ev Event) {
	payload := map[string]any{
		"type":  string(ev.Type),
		"runId": ev.RunID,
		"at":    ev.At.UTC().Format(time.RFC3339Nano),
	}
	if ev.NodeID != "" {
		payload["nodeId"] = ev.NodeID
		payload["nodeKind"] = ev.NodeKind
	}
	if ev.Error != "" {
		payload["error"] = ev.Error
	}
	ctxlog.FromContext(ctx).Debug("Emitting flow event.", "type", string(ev.Type))
	s.io.Emit(eventName, payload)
}

// Close implements Emitter.
func (s *SocketEmitter) Close() {
	s.io.Disconnect()
}
