package channel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"voiceout/log"
)

const (
	writeDeadline      = 5 * time.Second
	readDeadline       = 90 * time.Second
	pingInterval       = 30 * time.Second
	maxReadMessageSize = 32 * 1024
	inboxSize          = 64
)

var wsUpgrader = websocket.Upgrader{
	// Listener is bound to loopback.
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

var ErrUnknownWindow = errors.New("channel: unknown window")

// Handler receives every inbound message on the hub's single dispatch
// goroutine, so handlers never run concurrently with each other.
type Handler interface {
	Handle(window string, msg Message)
}

type HandlerFunc func(window string, msg Message)

func (f HandlerFunc) Handle(window string, msg Message) { f(window, msg) }

type HubOptions struct {
	// Addr is the listen address. "127.0.0.1:0" picks a free port.
	Addr string
}

type window struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

type inbound struct {
	window string
	msg    Message
}

// Hub is the background side of the channel. Each accepted connection is a
// window with its own id.
//
// Lock ordering: window.writeMu is never acquired while holding Hub.mu.
type Hub struct {
	opts    HubOptions
	handler Handler

	mu      sync.RWMutex
	windows map[string]*window

	inbox chan inbound
	done  chan struct{}

	listener  net.Listener
	server    *http.Server
	url       string
	closeOnce sync.Once
}

func NewHub(opts HubOptions, handler Handler) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	if handler == nil {
		handler = HandlerFunc(func(string, Message) {})
	}
	return &Hub{
		opts:    opts,
		handler: handler,
		windows: make(map[string]*window),
		inbox:   make(chan inbound, inboxSize),
		done:    make(chan struct{}),
	}
}

// Start listens on the configured address and begins dispatching. It must be
// called once.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return fmt.Errorf("channel: already started")
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("channel: listen: %w", err)
	}
	h.listener = ln
	h.url = URL(ln.Addr().String())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)

	h.server = &http.Server{
		Handler: mux,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go h.dispatch()
	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Errorf("channel server error: %v", serveErr)
		}
	}()

	log.Infof("channel listening on %s", h.url)
	return nil
}

// Stop closes every window and shuts the server down. Safe to call more than
// once.
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		windows := h.windows
		h.windows = make(map[string]*window)
		h.mu.Unlock()

		for _, w := range windows {
			w.conn.Close()
		}

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("channel: shutdown: %w", err)
			}
		}
		log.Info("channel stopped")
	})
	return stopErr
}

// URL is "ws://host:port/ws", or empty before Start.
func (h *Hub) URL() string {
	return h.url
}

// Windows returns the ids of all open windows.
func (h *Hub) Windows() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.windows))
	for id := range h.windows {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Reply sends one notification to a single window.
func (h *Hub) Reply(windowID, name string, payload any) error {
	h.mu.RLock()
	w := h.windows[windowID]
	h.mu.RUnlock()
	if w == nil {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, windowID)
	}
	frame, err := Encode(name, payload)
	if err != nil {
		return err
	}
	return h.write(w, websocket.TextMessage, frame)
}

// Broadcast sends one notification to every open window.
func (h *Hub) Broadcast(name string, payload any) {
	frame, err := Encode(name, payload)
	if err != nil {
		log.Errorf("broadcast %s: %v", name, err)
		return
	}

	h.mu.RLock()
	windows := make([]*window, 0, len(h.windows))
	for _, w := range h.windows {
		windows = append(windows, w)
	}
	h.mu.RUnlock()

	for _, w := range windows {
		if err := h.write(w, websocket.TextMessage, frame); err != nil {
			log.Warnf("broadcast %s to %s: %v", name, w.id, err)
		}
	}
}

// write sends one frame; a failed write drops the window.
func (h *Hub) write(w *window, kind int, frame []byte) error {
	w.writeMu.Lock()
	err := w.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err == nil {
		err = w.conn.WriteMessage(kind, frame)
		w.conn.SetWriteDeadline(time.Time{})
	}
	w.writeMu.Unlock()

	if err != nil {
		h.remove(w)
		w.conn.Close()
	}
	return err
}

func (h *Hub) remove(w *window) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.windows[w.id] != w {
		return false
	}
	delete(h.windows, w.id)
	return true
}

func (h *Hub) dispatch() {
	for {
		select {
		case <-h.done:
			return
		case in := <-h.inbox:
			h.handler.Handle(in.window, in.msg)
		}
	}
}

func (h *Hub) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(rw, r, nil)
	if err != nil {
		log.Warnf("channel upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxReadMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	w := &window{id: uuid.NewString(), conn: conn}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.windows[w.id] = w
	h.mu.Unlock()

	log.Infof("window %s connected", w.id)

	pingDone := make(chan struct{})
	go h.pingLoop(w, pingDone)

	defer func() {
		close(pingDone)
		h.remove(w)
		conn.Close()
		log.Infof("window %s disconnected", w.id)
	}()

	for {
		kind, data, readErr := conn.ReadMessage()
		if readErr != nil {
			if websocket.IsUnexpectedCloseError(readErr, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("window %s read error: %v", w.id, readErr)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		msg, err := Decode(data)
		if err != nil {
			log.Warnf("window %s: %v", w.id, err)
			continue
		}

		select {
		case h.inbox <- inbound{window: w.id, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) pingLoop(w *window, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.write(w, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
