package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"braviad/internal/bravia"
	"braviad/internal/device"
	"braviad/internal/logger"
)

// APIServer is the inbound command interface: named operations over
// HTTP, each answering with a normalized result and optional report
type APIServer struct {
	session *bravia.Session
	replay  *ReplayCache
	server  *http.Server
	logger  zerolog.Logger
}

// CommandRequest is the envelope for POST /command. ID is assigned when
// absent; Nonce enables idempotent retries.
type CommandRequest struct {
	ID    string `json:"id"`
	Nonce string `json:"nonce"`
	device.ActionRequest
}

// CommandResponse is the envelope answered for a command
type CommandResponse struct {
	ID        string `json:"id"`
	Nonce     string `json:"nonce,omitempty"`
	Timestamp string `json:"timestamp"`
	Replayed  bool   `json:"replayed,omitempty"`
	*device.ActionResponse
}

// StatusResponse is the observable session snapshot for GET /status
type StatusResponse struct {
	Connected bool   `json:"connected"`
	Power     string `json:"power"`
	Volume    int    `json:"volume"`
	Mute      bool   `json:"mute"`
	Model     string `json:"model,omitempty"`
	IRCodes   int    `json:"ir_codes"`
}

// NewAPIServer creates the HTTP command interface for one session
func NewAPIServer(session *bravia.Session, listen string) *APIServer {
	server := &APIServer{
		session: session,
		replay:  NewReplayCache(50, time.Hour),
		logger:  logger.GetLogger("daemon.api"),
	}

	router := mux.NewRouter()
	router.HandleFunc("/command", server.handleCommand).Methods("POST")
	router.HandleFunc("/status", server.handleStatus).Methods("GET")
	router.HandleFunc("/health", server.handleHealth).Methods("GET")

	server.server = &http.Server{
		Addr:    listen,
		Handler: router,
	}

	return server
}

// Start serves the API in the background
func (s *APIServer) Start() {
	s.logger.Info().
		Str("address", s.server.Addr).
		Msg("Starting command API server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Command API server error")
		}
	}()
}

// Stop shuts the API server down gracefully
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping command API server")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, &CommandResponse{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			ActionResponse: &device.ActionResponse{
				Success: false,
				Error:   fmt.Sprintf("invalid JSON: %v", err),
			},
		})
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	// Replay a duplicate nonce instead of hitting the device again
	if cached, ok := s.replay.Get(req.Nonce); ok {
		s.logger.Debug().
			Str("nonce", req.Nonce).
			Msg("Replaying cached command response")
		s.writeJSON(w, http.StatusOK, &CommandResponse{
			ID:             req.ID,
			Nonce:          req.Nonce,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			Replayed:       true,
			ActionResponse: cached,
		})
		return
	}

	actionJSON, err := json.Marshal(req.ActionRequest)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, &CommandResponse{
			ID:        req.ID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			ActionResponse: &device.ActionResponse{
				Success: false,
				Error:   err.Error(),
			},
		})
		return
	}

	response, err := s.session.Process(actionJSON)
	if err != nil {
		response = &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}
	}

	s.replay.Put(req.Nonce, response)

	s.logger.Info().
		Str("command_id", req.ID).
		Str("action", req.Action).
		Bool("success", response.Success).
		Msg("Command processed")

	s.writeJSON(w, http.StatusOK, &CommandResponse{
		ID:             req.ID,
		Nonce:          req.Nonce,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ActionResponse: response,
	})
}

func (s *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, &StatusResponse{
		Connected: s.session.State() == bravia.StateConnected,
		Power:     string(s.session.Power()),
		Volume:    s.session.Volume(),
		Mute:      s.session.Muted(),
		Model:     s.session.Model(),
		IRCodes:   s.session.IRCodes().Len(),
	})
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
