// Package server exposes a session over WebSocket. Clients send text
// commands and receive results, state, advice and engine events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/shoecount/internal/advisor"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/session"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
	session     *session.Session
	unsubscribe func()
	httpServer  *http.Server
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// The feed is meant for local front ends
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
	}
}

// SetSession attaches the session the server drives and subscribes to its
// engine events.
func (s *Server) SetSession(sess *session.Session) {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.session = sess
	s.unsubscribe = sess.Subscribe(game.SubscriberFunc(s.onEvent))
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	if s.session == nil {
		return errors.New("server has no session")
	}
	hs := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = hs
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes every connection
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	hs := s.httpServer
	s.mu.Unlock()

	var err error
	if hs != nil {
		err = hs.Shutdown(ctx)
	}

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	return err
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	if _, ok := s.connections[conn]; ok {
		delete(s.connections, conn)
		_ = conn.Close() // Ignore close errors during unregistration
	}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register(client)
	client.Start()

	// Greet with the current state and any advice still valid
	client.reply("", MessageTypeState, StateFromSnapshot(s.session.Snapshot()))
	if adv, ok := s.session.Advice(); ok {
		client.reply("", MessageTypeAdvice, AdviceFromAdvisor(adv))
	}

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// Broadcast sends a message to every connection
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message to client", "error", err)
		} else {
			count++
		}
	}

	s.logger.Debug("Broadcasted message", "type", msg.Type, "recipients", count)
}

func (s *Server) broadcast(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	s.Broadcast(msg)
}

// BroadcastState sends the current engine state to every connection
func (s *Server) BroadcastState() {
	s.broadcast(MessageTypeState, StateFromSnapshot(s.session.Snapshot()))
}

// PublishAdvice broadcasts a recommendation. It is the session's OnAdvice
// callback.
func (s *Server) PublishAdvice(a advisor.Advice) {
	s.broadcast(MessageTypeAdvice, AdviceFromAdvisor(a))
}

// ClearAdvice tells clients the previous recommendation no longer applies.
// It is the session's OnClear callback.
func (s *Server) ClearAdvice() {
	s.broadcast(MessageTypeCleared, struct{}{})
}

// onEvent runs under the session lock and must not call back into it
func (s *Server) onEvent(event game.Event) {
	s.broadcast(MessageTypeEvent, EventData{
		Type: event.EventType().String(),
		Text: game.FormatEvent(event),
	})
}

// ConnectionCount returns the number of connected clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}
