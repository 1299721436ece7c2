package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Bridge methods understood by the drafting-application automation bridge.
const (
	MethodAttach         = "attach"
	MethodDetach         = "detach"
	MethodOpenDocument   = "open_document"
	MethodDocumentName   = "document_name"
	MethodEnsureLayer    = "ensure_layer"
	MethodSetActiveLayer = "set_active_layer"
	MethodAddLine        = "add_line"
	MethodAddCircle      = "add_circle"
	MethodAddArc         = "add_arc"
	MethodAddPolyline    = "add_polyline"
	MethodAddText        = "add_text"
	MethodAddHatch       = "add_hatch"
	MethodAddDimension   = "add_dimension"
	MethodRegen          = "regen"
	MethodSaveAs         = "save_as"
)

// Request is one call sent to the bridge.
type Request struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Response is the bridge's answer to the request with the same ID.
type Response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RemoteError    `json:"error,omitempty"`
}

// Client is a blocking request/response client over one websocket connection.
// Calls are serialized: the drafting application processes one command at a time.
type Client struct {
	url    string
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

// NewClient creates a client for the bridge at url (ws:// or wss://).
func NewClient(url string) *Client {
	return &Client{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
	}
}

// Dial opens the connection if it is not already open.
func (c *Client) Dial(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return &TransportError{Method: "dial", Cause: err}
	}
	c.conn = conn
	return nil
}

// Connected reports whether a connection is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Call sends method with params and waits for the matching response.
// A transport failure drops the connection; a bridge-reported failure does not.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return &TransportError{Method: method, Cause: ErrNotDialed}
	}
	conn := c.conn

	// Unblock reads and writes when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
		_ = conn.SetWriteDeadline(time.Now())
	})
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Time{})
		_ = conn.SetWriteDeadline(time.Time{})
	}

	c.nextID++
	req := Request{ID: c.nextID, Method: method, Params: params}
	if err := conn.WriteJSON(req); err != nil {
		c.dropLocked()
		return &TransportError{Method: method, Cause: contextCause(ctx, err)}
	}

	for {
		var resp Response
		if err := conn.ReadJSON(&resp); err != nil {
			c.dropLocked()
			return &TransportError{Method: method, Cause: contextCause(ctx, err)}
		}
		if resp.ID != req.ID {
			// Stale answer to an abandoned call.
			continue
		}
		if resp.Error != nil {
			resp.Error.Method = method
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}
		return nil
	}
}

// Close sends a close frame and drops the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) dropLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func contextCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(ctxErr, err)
	}
	return err
}
