// Package gateway exposes the game over websockets. Each connection is one
// chat identity; inbound lines are dispatched as commands and replies,
// notifications, and broadcasts flow back over the socket.
package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/madeofmoss/KoD/internal/command"
)

// sendBuffer is the per-session outbound queue. A session that cannot drain
// it loses messages rather than stalling the engine.
const sendBuffer = 32

// Server accepts websocket sessions and routes chat lines to the dispatcher.
// It doubles as the engine's Notifier.
type Server struct {
	dispatcher *command.Dispatcher
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	sessions map[string][]*session // playerID -> open connections
}

type session struct {
	playerID string
	conn     *websocket.Conn
	send     chan string
	done     chan struct{}
}

// NewServer builds a gateway around a dispatcher. SetDispatcher may be used
// instead when the dispatcher needs the server as its notifier first.
func NewServer(d *command.Dispatcher) *Server {
	return &Server{
		dispatcher: d,
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		sessions:   make(map[string][]*session),
	}
}

// SetDispatcher wires the dispatcher after construction, breaking the
// notifier/dispatcher cycle at boot.
func (s *Server) SetDispatcher(d *command.Dispatcher) { s.dispatcher = d }

// Router returns the HTTP routes: the websocket endpoint and a health check.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)
	return r
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		http.Error(w, "player query parameter required", http.StatusBadRequest)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = playerID
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "player", playerID, "error", err)
		return
	}

	sess := &session{
		playerID: playerID,
		conn:     conn,
		send:     make(chan string, sendBuffer),
		done:     make(chan struct{}),
	}
	s.addSession(sess)
	slog.Info("session opened", "player", playerID)

	go sess.writeLoop()
	s.readLoop(sess, command.Context{PlayerID: playerID, Name: name})
}

func (s *Server) readLoop(sess *session, ctx command.Context) {
	defer func() {
		s.removeSession(sess)
		close(sess.done)
		sess.conn.Close()
		slog.Info("session closed", "player", sess.playerID)
	}()

	for {
		kind, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if reply := s.dispatcher.Dispatch(ctx, string(data)); reply != "" {
			sess.deliver(reply)
		}
	}
}

func (sess *session) writeLoop() {
	for {
		select {
		case <-sess.done:
			return
		case msg := <-sess.send:
			if err := sess.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
	}
}

// deliver queues a message, dropping it if the session is gone or backed up.
func (sess *session) deliver(msg string) {
	select {
	case <-sess.done:
	case sess.send <- msg:
	default:
		slog.Warn("session send buffer full, dropping message", "player", sess.playerID)
	}
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.playerID] = append(s.sessions[sess.playerID], sess)
}

func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := s.sessions[sess.playerID]
	for i, candidate := range open {
		if candidate == sess {
			s.sessions[sess.playerID] = append(open[:i], open[i+1:]...)
			break
		}
	}
	if len(s.sessions[sess.playerID]) == 0 {
		delete(s.sessions, sess.playerID)
	}
}

// NotifyPlayer implements engine.Notifier. Messages to an offline player are
// dropped; the game state itself is durable.
func (s *Server) NotifyPlayer(playerID, message string) {
	s.mu.Lock()
	open := append([]*session(nil), s.sessions[playerID]...)
	s.mu.Unlock()
	for _, sess := range open {
		sess.deliver(message)
	}
}

// Broadcast implements engine.Notifier for announcements.
func (s *Server) Broadcast(message string) {
	s.mu.Lock()
	all := make([]*session, 0, len(s.sessions))
	for _, open := range s.sessions {
		all = append(all, open...)
	}
	s.mu.Unlock()
	for _, sess := range all {
		sess.deliver(message)
	}
}
