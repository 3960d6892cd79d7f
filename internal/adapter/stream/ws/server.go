// Package ws streams completed turns to observer UIs over websockets.
// Clients subscribe once and then receive one JSON frame per turn.
package ws

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"

	"github.com/gorilla/websocket"
)

const protocolVersion = 1

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 5 * time.Second
	clientBuffer     = 16
)

type subscribeMsg struct {
	Type string `json:"type"`
}

type bootstrapResponse struct {
	ProtocolVersion int       `json:"protocol_version"`
	RunID           string    `json:"run_id"`
	Turn            uint64    `json:"turn"`
	Running         bool      `json:"running"`
	Grid            grid.Size `json:"grid"`
	Species         []string  `json:"species"`
}

// TurnSource reports the scheduler position for the bootstrap payload.
type TurnSource interface {
	Snapshot() (turn uint64, running bool)
}

type Server struct {
	// AllowRemote lifts the loopback-only guard. Off unless the
	// operator opts in.
	AllowRemote bool

	runID   string
	grid    ports.GridService
	turns   TurnSource
	species []string
	logger  *slog.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.Mutex
	clients map[uint64]chan []byte
}

func NewServer(runID string, g ports.GridService, turns TurnSource, logger *slog.Logger) *Server {
	species := make([]string, 0, len(creature.AllSpecies))
	for _, s := range creature.AllSpecies {
		species = append(species, string(s))
	}
	return &Server{
		runID:   runID,
		grid:    g,
		turns:   turns,
		species: species,
		logger:  logger,
		clients: map[uint64]chan []byte{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Register mounts the stream endpoints on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/stream", s.wsHandler)
	mux.HandleFunc("/v1/bootstrap", s.bootstrapHandler)
}

// TurnCompleted fans the summary out to every connected client. A
// client whose buffer is full has stopped reading and is dropped so
// the scheduler never stalls on it.
func (s *Server) TurnCompleted(summary ports.TurnSummary) {
	frame, err := json.Marshal(summary)
	if err != nil {
		s.warn("turn frame marshal failed", slog.Uint64("turn", summary.Turn), slog.Any("err", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.clients {
		select {
		case ch <- frame:
		default:
			delete(s.clients, id)
			close(ch)
			s.warn("slow stream client dropped", slog.Uint64("client", id))
		}
	}
}

// ClientCount reports connected stream clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client. Safe to call once on shutdown.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.clients {
		delete(s.clients, id)
		close(ch)
	}
	return nil
}

func (s *Server) wsHandler(rw http.ResponseWriter, r *http.Request) {
	if !s.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Handshake: the first message must be a SUBSCRIBE.
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var sub subscribeMsg
	if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != "SUBSCRIBE" {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
			time.Now().Add(time.Second))
		return
	}

	id, ch := s.addClient()
	defer s.dropClient(id)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for frame := range ch {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.dropClient(id)
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
	}()

	// Reader loop: frames only flow server to client, so reads exist
	// to notice the client going away.
	_ = conn.SetReadDeadline(time.Time{})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.dropClient(id)
	select {
	case <-writeDone:
	case <-time.After(500 * time.Millisecond):
	}
}

func (s *Server) bootstrapHandler(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	resp := bootstrapResponse{
		ProtocolVersion: protocolVersion,
		RunID:           s.runID,
		Species:         s.species,
	}
	if s.turns != nil {
		resp.Turn, resp.Running = s.turns.Snapshot()
	}
	if s.grid != nil {
		resp.Grid = s.grid.Size()
	}

	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func (s *Server) addClient() (uint64, chan []byte) {
	id := s.nextID.Add(1)
	ch := make(chan []byte, clientBuffer)
	s.mu.Lock()
	s.clients[id] = ch
	s.mu.Unlock()
	return id, ch
}

func (s *Server) dropClient(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[id]; ok {
		delete(s.clients, id)
		close(ch)
	}
}

func (s *Server) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
