package bridge

import (
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("skylight.bridge")

// Performer posts work onto the host run loop. Handlers always execute
// there, never on a connection's read goroutine.
type Performer interface {
	Perform(func())
}

// Handler processes one envelope and optionally returns a reply.
type Handler func(Envelope) (Envelope, bool)

// Server accepts websocket connections from the web content and routes
// envelopes to registered handlers.
type Server struct {
	loop     Performer
	upgrader websocket.Upgrader

	hmu      sync.RWMutex
	handlers map[string]Handler

	cmu      sync.Mutex
	conns    map[*client]struct{}
	listener net.Listener
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// NewServer creates a server that performs all handler work on loop.
func NewServer(loop Performer) *Server {
	return &Server{
		loop: loop,
		upgrader: websocket.Upgrader{
			// The bridge binds to loopback only; the embedded web view is
			// the sole intended client.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]Handler),
		conns:    make(map[*client]struct{}),
	}
}

// Handle registers the handler for a message type. Registering the same
// type again replaces the previous handler.
func (s *Server) Handle(typ string, h Handler) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.handlers[typ] = h
}

// Listen binds the bridge endpoint. The returned address is final even
// when addr requested port 0.
func (s *Server) Listen(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = l
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/bridge", s.handleUpgrade)
	return http.Serve(s.listener, mux)
}

// ServeHTTP upgrades a single request; exposed so the endpoint can be
// mounted on an existing mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handleUpgrade(w, r)
}

// Close shuts the listener and drops all connections.
func (s *Server) Close() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.cmu.Lock()
	defer s.cmu.Unlock()
	for c := range s.conns {
		_ = c.conn.Close()
	}
	s.conns = make(map[*client]struct{})
}

// Broadcast sends an envelope to every connected client as a text frame.
func (s *Server) Broadcast(e Envelope) {
	data, err := EncodeJSON(e)
	if err != nil {
		log.Errorf("broadcast encode: %v", err)
		return
	}
	s.cmu.Lock()
	clients := make([]*client, 0, len(s.conns))
	for c := range s.conns {
		clients = append(clients, c)
	}
	s.cmu.Unlock()
	for _, c := range clients {
		if err := c.write(websocket.TextMessage, data); err != nil {
			log.Debugf("broadcast write: %v", err)
		}
	}
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warningf("upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn}
	s.cmu.Lock()
	s.conns[c] = struct{}{}
	s.cmu.Unlock()

	go s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.cmu.Lock()
		delete(s.conns, c)
		s.cmu.Unlock()
		_ = c.conn.Close()
	}()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		switch messageType {
		case websocket.TextMessage:
			env, err = DecodeJSON(data)
		case websocket.BinaryMessage:
			env, err = DecodeBinary(data)
		default:
			continue
		}
		if err != nil {
			log.Warningf("bad frame: %v", err)
			s.reply(c, messageType, errorEnvelope("", err.Error()))
			continue
		}

		// Handler work belongs on the run loop; the reply is written from
		// there once the handler returns.
		s.loop.Perform(func() {
			if reply, ok := s.dispatch(env); ok {
				s.reply(c, messageType, reply)
			}
		})
	}
}

// dispatch routes one envelope to its handler. Unknown types produce an
// error reply rather than dropping the message silently.
func (s *Server) dispatch(env Envelope) (Envelope, bool) {
	s.hmu.RLock()
	h, ok := s.handlers[env.Type]
	s.hmu.RUnlock()
	if !ok {
		log.Warningf("no handler for message type %q", env.Type)
		e := errorEnvelope(env.ID, "unknown message type: "+env.Type)
		return e, true
	}
	return h(env)
}

func (s *Server) reply(c *client, messageType int, e Envelope) {
	var data []byte
	var err error
	switch messageType {
	case websocket.BinaryMessage:
		data, err = EncodeBinary(e)
	default:
		data, err = EncodeJSON(e)
	}
	if err != nil {
		log.Errorf("encode reply: %v", err)
		return
	}
	if err := c.write(messageType, data); err != nil {
		log.Debugf("write reply: %v", err)
	}
}

func errorEnvelope(id, msg string) Envelope {
	e, _ := NewEnvelope(TypeError, ErrorPayload{Message: msg})
	if id != "" {
		e.ID = id
	}
	return e
}
