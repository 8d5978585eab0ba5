package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voiceout/log"
)

// Client is the window side of the channel. Listeners run on the client's
// read goroutine in arrival order.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu        sync.Mutex
	listeners map[string]map[int]func(json.RawMessage)
	nextID    int

	done      chan struct{}
	closeOnce sync.Once
}

func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("channel: dial %s: %w", url, err)
	}
	conn.SetReadLimit(maxReadMessageSize)

	c := &Client{
		conn:      conn,
		listeners: make(map[string]map[int]func(json.RawMessage)),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Send emits a notification to the background process.
func (c *Client) Send(name string, payload any) error {
	frame, err := Encode(name, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return fmt.Errorf("channel: send %s: %w", name, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("channel: send %s: %w", name, err)
	}
	return nil
}

// On subscribes fn to notifications called name. The returned func removes
// the subscription and is safe to call more than once.
func (c *Client) On(name string, fn func(payload json.RawMessage)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	if c.listeners[name] == nil {
		c.listeners[name] = make(map[int]func(json.RawMessage))
	}
	c.listeners[name][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if set := c.listeners[name]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(c.listeners, name)
			}
		}
	}
}

// Listeners counts subscriptions for name.
func (c *Client) Listeners(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners[name])
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close drops every listener and closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.listeners = make(map[string]map[int]func(json.RawMessage))
		c.mu.Unlock()

		c.writeMu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(time.Second))
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("channel read error: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		msg, err := Decode(data)
		if err != nil {
			log.Warnf("channel: %v", err)
			continue
		}

		c.mu.Lock()
		fns := make([]func(json.RawMessage), 0, len(c.listeners[msg.Name]))
		for _, fn := range c.listeners[msg.Name] {
			fns = append(fns, fn)
		}
		c.mu.Unlock()

		for _, fn := range fns {
			fn(msg.Payload)
		}
	}
}
