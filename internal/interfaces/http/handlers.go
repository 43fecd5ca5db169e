package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dexhound/dexhound/internal/domain"
)

// marketResponse is the wire shape of the market endpoint: entries plus
// provenance so consumers can tell a fresh scan from a cached one.
type marketResponse struct {
	Entries   []domain.MarketEntry `json:"entries"`
	Source    domain.Source        `json:"source"`
	LatencyMs int64                `json:"latency_ms"`
	Timestamp time.Time            `json:"timestamp"`
	RunID     string               `json:"run_id,omitempty"`
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	res, src := s.market.GetMarketData(r.Context(), force)

	entries := res.Entries
	if entries == nil {
		entries = []domain.MarketEntry{}
	}
	writeJSON(w, http.StatusOK, marketResponse{
		Entries:   entries,
		Source:    src,
		LatencyMs: res.Latency.Milliseconds(),
		Timestamp: res.Timestamp,
		RunID:     res.RunID,
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	entry := s.market.GetTokenDetails(r.Context(), query)
	if entry == nil {
		writeError(w, http.StatusNotFound, "no matching token")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	snap, err := s.portfolios.Fetch(r.Context(), vars["chain"], vars["address"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
