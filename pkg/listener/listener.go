// Package listener maintains the persistent change-event connection to the
// nodb service. One Listener owns at most one active connection; decoded
// change events fan out through an events.Registry so any number of
// consumers can subscribe independently of the connection lifecycle.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/nodb-io/nodb-go/pkg/events"
	"github.com/nodb-io/nodb-go/pkg/models"
	"github.com/nodb-io/nodb-go/pkg/nodb"
)

// EventChange is the registry event name every decoded change event is
// emitted under. Handlers receive a models.ChangeEvent.
const EventChange = "change"

// State is the connection state of a Listener.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "disconnected"
	}
}

// DecodeError reports an inbound frame that could not be decoded into a
// change event. It is logged and the frame dropped; it is never fatal to
// the connection.
type DecodeError struct {
	Frame []byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("undecodable change frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Config holds construction parameters for a Listener.
type Config struct {
	// BaseURL is the root URL of the nodb service; http(s) is rewritten
	// to ws(s) at connect time. Required.
	BaseURL string

	// Token is the default credential for Connect calls that do not
	// supply their own.
	Token string

	// Events receives decoded change events. A private registry is
	// created when nil.
	Events *events.Registry

	// Logger (optional).
	Logger hclog.Logger
}

// Validate checks construction parameters.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// ConnectRequest scopes a connection to an application, or to a single
// environment when EnvName is set. Token overrides the configured default
// for this connection.
type ConnectRequest struct {
	AppName string
	EnvName string
	Token   string
}

// Listener holds at most one change-event connection. Methods are safe for
// concurrent use.
type Listener struct {
	baseURL string
	token   string
	events  *events.Registry
	logger  hclog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
	done  chan struct{}
}

// New creates a disconnected Listener.
func New(cfg Config) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &nodb.ConfigurationError{
			Message: fmt.Sprintf("invalid listener configuration: %v", err),
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Events == nil {
		cfg.Events = events.NewRegistry(cfg.Logger)
	}

	return &Listener{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		events:  cfg.Events,
		logger:  cfg.Logger.Named("nodb-listener"),
	}, nil
}

// Events returns the registry decoded change events are emitted on.
func (l *Listener) Events() *events.Registry {
	return l.events
}

// State returns the current connection state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Done returns a channel closed when the current connection terminates,
// for callers that want to reconnect explicitly. With no connection it
// returns an already-closed channel.
func (l *Listener) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return l.done
}

// Connect establishes the change-event connection for the requested scope.
// A missing credential fails synchronously, before any dial. An existing
// connection is closed first: a Listener never holds two connections.
// Dial failures are returned as the transport produced them; the Listener
// never retries on its own.
func (l *Listener) Connect(ctx context.Context, req ConnectRequest) error {
	if req.AppName == "" {
		return &nodb.ConfigurationError{Message: "application name is required"}
	}
	token := req.Token
	if token == "" {
		token = l.token
	}
	if token == "" {
		return &nodb.ConfigurationError{Message: "no credential available for socket connection"}
	}

	l.Disconnect()

	l.mu.Lock()
	l.state = StateConnecting
	l.mu.Unlock()

	socketURL := rewriteScheme(l.baseURL) + nodb.SocketPath(req.AppName, req.EnvName)
	l.logger.Debug("connecting", "url", socketURL)

	conn, resp, err := websocket.Dial(ctx, socketURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"token": []string{token}},
	})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		l.mu.Lock()
		l.state = StateDisconnected
		l.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	l.mu.Lock()
	l.conn = conn
	l.done = done
	l.state = StateOpen
	l.mu.Unlock()

	l.logger.Info("connected", "app", req.AppName, "env", req.EnvName)

	go l.readLoop(conn, done)
	return nil
}

// Disconnect closes the active connection, if any. It is idempotent and
// safe to call from any state.
func (l *Listener) Disconnect() {
	l.mu.Lock()
	conn := l.conn
	done := l.done
	l.conn = nil
	l.done = nil
	l.state = StateDisconnected
	l.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Close(websocket.StatusNormalClosure, "client disconnect"); err != nil {
		l.logger.Debug("close returned error", "error", err)
	}
	if done != nil {
		<-done
	}
}

// readLoop drains inbound frames until the connection dies. Undecodable
// frames are dropped with a reported decode error; a transport error is
// terminal for this connection instance and leaves reconnection to the
// caller.
func (l *Listener) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	ctx := context.Background()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			l.logger.Debug("connection terminated", "error", err)
			l.teardown(conn)
			return
		}

		var evt models.ChangeEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			decErr := &DecodeError{Frame: data, Err: err}
			l.logger.Error("dropping frame", "error", decErr)
			continue
		}
		if evt.Type == "" || evt.AppName == "" {
			l.logger.Error("dropping frame", "error",
				&DecodeError{Frame: data, Err: fmt.Errorf("missing type or appName")})
			continue
		}

		l.logger.Debug("change event",
			"operation", evt.Operation(),
			"app", evt.AppName,
			"env", evt.EnvName,
		)
		l.events.Emit(EventChange, evt)
	}
}

// teardown resets state after the read loop observed a dead connection,
// unless Disconnect (or a newer Connect) already detached it.
func (l *Listener) teardown(conn *websocket.Conn) {
	l.mu.Lock()
	if l.conn == conn {
		l.conn = nil
		l.done = nil
		l.state = StateDisconnected
	}
	l.mu.Unlock()
	conn.CloseNow()
}

// rewriteScheme maps the service base URL onto its socket endpoint scheme.
func rewriteScheme(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
