// Package publish pushes trace results to a socket.io server, typically the
// exception browser UI.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/report"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Options configures a Publisher.
type Options struct {
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
}

// Payload is the body of one published event.
type Payload struct {
	RunID      string         `json:"run_id"`
	Workflow   string         `json:"workflow"`
	Document   string         `json:"document"`
	Exceptions []report.Entry `json:"exceptions"`
}

// NewPayload builds the event body for one document. Only records of the
// given groups are included; with no groups, all are.
func NewPayload(runID string, d report.DocumentReport, groups []string) Payload {
	return Payload{
		RunID:      runID,
		Workflow:   d.Workflow,
		Document:   d.Document,
		Exceptions: report.Entries(filterRecords(d, groups)),
	}
}

// Publisher holds a connected socket.io client.
type Publisher struct {
	opts Options
	io   *socket.Socket
}

// Connect dials the server and waits for the connection to be acknowledged.
func Connect(ctx context.Context, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "publish", "url", opts.URL)

	parsedURL, err := parseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to publish target.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Connection attempt failed.", "error", err)
		connectChan <- err
	})

	logger.Debug("Connecting...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Publisher{opts: opts, io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", opts.Timeout)
	}
}

// Publish emits one event per payload, in order.
func (p *Publisher) Publish(ctx context.Context, payloads ...Payload) error {
	logger := ctxlog.FromContext(ctx).With("component", "publish", "sid", p.io.Id())
	if !p.io.Connected() {
		return fmt.Errorf("socket.io client is not connected")
	}
	for _, pl := range payloads {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("Emitting event.", "event", p.opts.Event, "workflow", pl.Workflow, "exceptions", len(pl.Exceptions))
		p.io.Emit(p.opts.Event, pl)
	}
	logger.Info("Published results.", "documents", len(payloads))
	return nil
}

// Close disconnects the client.
func (p *Publisher) Close() {
	p.io.Disconnect()
}

func parseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("publish URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported publish URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("publish URL %q has no host", raw)
	}
	return u, nil
}
