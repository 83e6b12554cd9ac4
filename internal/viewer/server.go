// internal/viewer/server.go

// Package viewer exposes assembled conversations over HTTP for debugging
// and lightweight UIs. Turns are recomputed from the transcript snapshot on
// every request; nothing derived is cached or persisted.
package viewer

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/user/weft/internal/assemble"
	"github.com/user/weft/internal/types"
)

// Server is a lightweight HTTP handler over the catalog and transcripts.
type Server struct {
	catalog types.SessionCatalog
	source  types.EventSource
	mux     *http.ServeMux
}

// NewServer creates a viewer Server backed by the given catalog and event
// source.
func NewServer(catalog types.SessionCatalog, source types.EventSource) *Server {
	s := &Server{
		catalog: catalog,
		source:  source,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/sessions", s.handleSessions)
	s.mux.HandleFunc("GET /api/sessions/", s.handleSession)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type sessionResponse struct {
	SessionID  string `json:"session_id"`
	SessionKey string `json:"session_key"`
	Agent      string `json:"agent"`
	Preview    string `json:"preview,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	EventCount int64  `json:"event_count"`
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := s.catalog.List(ctx)
	if err != nil {
		slog.Error("list sessions failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Sort before formatting; the string forms carry zone offsets and do
	// not compare chronologically.
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	result := make([]sessionResponse, 0, len(sessions))
	for _, info := range sessions {
		count, err := s.source.Count(ctx, info.SessionID)
		if err != nil {
			slog.Warn("count events failed", "session_id", info.SessionID, "error", err)
		}
		result = append(result, sessionResponse{
			SessionID:  string(info.SessionID),
			SessionKey: string(info.SessionKey),
			Agent:      info.Agent,
			Preview:    info.Preview,
			CreatedAt:  info.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:  info.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			EventCount: count,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// streamItem is one element of a turn's batched response stream.
type streamItem struct {
	Event *types.Event     `json:"event,omitempty"`
	Batch *types.ToolBatch `json:"batch,omitempty"`
}

// turnResponse wraps an assembled turn with its batched stream.
type turnResponse struct {
	*types.Turn
	Stream []streamItem `json:"stream,omitempty"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	// Path: /api/sessions/{id}/turns or /api/sessions/{id}/events
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	sessionID := types.SessionID(parts[0])

	switch parts[1] {
	case "turns":
		s.serveTurns(w, r, sessionID)
	case "events":
		s.serveEvents(w, r, sessionID)
	default:
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}

func (s *Server) serveTurns(w http.ResponseWriter, r *http.Request, id types.SessionID) {
	events, err := s.source.Snapshot(r.Context(), id)
	if err != nil {
		slog.Error("snapshot failed", "session_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	turns := assemble.Assemble(events)
	result := make([]turnResponse, 0, len(turns))
	for _, turn := range turns {
		resp := turnResponse{Turn: turn}
		for _, item := range assemble.BatchTools(turn.ResponseEvents, turn.ToolResults) {
			resp.Stream = append(resp.Stream, streamItem{Event: item.Event, Batch: item.Batch})
		}
		result = append(result, resp)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request, id types.SessionID) {
	events, err := s.source.Snapshot(r.Context(), id)
	if err != nil {
		slog.Error("snapshot failed", "session_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	limit := 200
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	if events == nil {
		events = []*types.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
