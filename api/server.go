package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/saeidalz13/battleship-admiral/db/sqlc"
	"github.com/saeidalz13/battleship-admiral/internal/agent"
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
	mc "github.com/saeidalz13/battleship-admiral/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort          int           = 8000
	defaultOpponentDelay time.Duration = time.Second
	defaultAgentTimeout  time.Duration = time.Second * 20
	shutdownTimeout      time.Duration = time.Second * 10
)

type Server struct {
	port          int
	stage         string
	q             sqlc.Querier
	agentClient   *agent.Client
	agentCalls    *agent.MemoryRecorder
	opponentDelay time.Duration
	agentTimeout  time.Duration

	GameManager    *mb.BattleshipGameManager
	SessionManager *mc.BattleshipSessionManager
	rp             RequestProcessor
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:           defaultPort,
		stage:          StageDev,
		opponentDelay:  defaultOpponentDelay,
		agentTimeout:   defaultAgentTimeout,
		GameManager:    mb.NewBattleshipGameManager(),
		SessionManager: mc.NewBattleshipSessionManager(),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	server.rp = NewRequestProcessor(server.SessionManager, server.GameManager, server.q, server.agentClient)
	server.rp.opponentDelay = server.opponentDelay
	server.rp.agentTimeout = server.agentTimeout

	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

// WithQuerier enables analytics. Without it nothing is persisted.
func WithQuerier(q sqlc.Querier) Option {
	return func(s *Server) error {
		s.q = q
		return nil
	}
}

// WithAgentClient connects the Admiral and the helper to the agent
// service. Without it every Admiral move is random.
func WithAgentClient(client *agent.Client) Option {
	return func(s *Server) error {
		s.agentClient = client
		return nil
	}
}

// WithAgentCalls exposes the recent agent calls on /debug/agent-calls in
// the dev stage. The same recorder has to be given to the agent client.
func WithAgentCalls(recorder *agent.MemoryRecorder) Option {
	return func(s *Server) error {
		s.agentCalls = recorder
		return nil
	}
}

func WithOpponentDelay(d time.Duration) Option {
	return func(s *Server) error {
		if d < 0 {
			return fmt.Errorf("opponent delay must not be negative: %s", d)
		}
		s.opponentDelay = d
		return nil
	}
}

func WithAgentTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d <= 0 {
			return fmt.Errorf("agent timeout must be positive: %s", d)
		}
		s.agentTimeout = d
		return nil
	}
}

func WithGameManager(gm *mb.BattleshipGameManager) Option {
	return func(s *Server) error {
		s.GameManager = gm
		return nil
	}
}

func WithSessionManager(sm *mc.BattleshipSessionManager) Option {
	return func(s *Server) error {
		s.SessionManager = sm
		return nil
	}
}

func (s *Server) RequestProcessor() RequestProcessor {
	return s.rp
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /battleship", s.rp)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.stage == StageDev && s.agentCalls != nil {
		mux.HandleFunc("GET /debug/agent-calls", s.handleAgentCalls)
	}
	return mux
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second * 5,
	}

	go s.SessionManager.CleanupPeriodically(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", s.port, "stage", s.stage)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}

type respHealth struct {
	Status   string `json:"status"`
	Games    int    `json:"games"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, respHealth{
		Status:   "ok",
		Games:    s.GameManager.CountGames(),
		Sessions: s.SessionManager.CountSessions(),
	})
}

type respAgentCall struct {
	agent.Call
	Error string `json:"error,omitempty"`
}

func (s *Server) handleAgentCalls(w http.ResponseWriter, r *http.Request) {
	calls := s.agentCalls.Calls()
	out := make([]respAgentCall, 0, len(calls))
	for _, call := range calls {
		item := respAgentCall{Call: call}
		if call.Err != nil {
			item.Error = call.Err.Error()
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response", "err", err)
	}
}
