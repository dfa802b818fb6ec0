package sink

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIO emits every document as one event on a socket.io connection. The
// connection is opened on the first Write and kept until Close.
type SocketIO struct {
	cfg     config.SocketIOPublisher
	baseURL string
	path    string
	timeout time.Duration

	client *socket.Socket
}

// NewSocketIO validates the publisher settings. It does not connect.
func NewSocketIO(cfg *config.SocketIOPublisher) (*SocketIO, error) {
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("socket.io url %q must be absolute", cfg.URL)
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	event := cfg.Event
	if event == "" {
		event = "metadata"
	}

	s := &SocketIO{
		cfg:     *cfg,
		baseURL: fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:    parsedURL.Path,
		timeout: timeout,
	}
	s.cfg.Event = event
	if s.cfg.Namespace == "" {
		s.cfg.Namespace = "/"
	}
	return s, nil
}

// Name implements Sink.
func (s *SocketIO) Name() string { return "socketio" }

func (s *SocketIO) connect(ctx context.Context) (*socket.Socket, error) {
	if s.client != nil {
		return s.client, nil
	}
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", s.cfg.URL)

	opts := socket.DefaultOptions()
	if s.path != "" {
		opts.SetPath(s.path)
	}
	if s.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(s.baseURL, opts)
	io := manager.Socket(s.cfg.Namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(s.timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", s.timeout)
	}

	s.client = io
	return io, nil
}

// Write implements Sink.
func (s *SocketIO) Write(ctx context.Context, doc Document) (string, error) {
	payload, err := eventPayload(doc)
	if err != nil {
		return "", err
	}
	io, err := s.connect(ctx)
	if err != nil {
		return "", err
	}

	ctxlog.FromContext(ctx).Debug("Emitting document.", "event", s.cfg.Event, "instance", doc.Instance)
	if err := io.Emit(s.cfg.Event, payload); err != nil {
		return "", fmt.Errorf("failed to emit %q: %w", s.cfg.Event, err)
	}
	return fmt.Sprintf("%s#%s/%s", s.cfg.URL, s.cfg.Event, doc.Instance), nil
}

// eventPayload wraps the encoded document without re-decoding it, so the
// asset order of the document is kept on the wire.
func eventPayload(doc Document) (map[string]any, error) {
	if !json.Valid(doc.Data) {
		return nil, fmt.Errorf("document for %q is not valid JSON", doc.Instance)
	}
	return map[string]any{
		"instance": doc.Instance,
		"file":     doc.FileName,
		"document": json.RawMessage(doc.Data),
	}, nil
}

// Close implements Sink.
func (s *SocketIO) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Disconnecting socket client", "sid", s.client.Id())
	s.client.Disconnect()
	s.client = nil
	return nil
}
