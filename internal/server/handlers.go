package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"dashboardfetcher/internal/coordinator"
	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type realEstateResponse struct {
	Success   bool            `json:"success"`
	Count     int             `json:"count"`
	Data      []domain.Record `json:"data,omitempty"`
	SearchURL string          `json:"searchUrl,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type refreshResponse struct {
	Started []domain.Domain `json:"started"`
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// writeRaw forwards an upstream payload unmodified
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("failed to write proxied response")
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: s.opts.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) weather(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	body, err := s.proxies.Weather.Raw(r.Context(), city)
	if err != nil {
		logging.Error().Err(err).Str("city", city).Msg("weather proxy failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch weather data"})
		return
	}
	writeRaw(w, body)
}

func (s *Server) news(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := s.proxies.News.Raw(r.Context(), q.Get("query"), q.Get("category"), q.Get("language"))
	if err != nil {
		logging.Error().Err(err).Msg("news proxy failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch news data"})
		return
	}
	writeRaw(w, body)
}

func (s *Server) crypto(w http.ResponseWriter, r *http.Request) {
	body, err := s.proxies.Crypto.Raw(r.Context(), r.URL.Query().Get("ids"))
	if err != nil {
		logging.Error().Err(err).Msg("crypto proxy failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch crypto data"})
		return
	}
	writeRaw(w, body)
}

func (s *Server) stocks(w http.ResponseWriter, r *http.Request) {
	s.records(w, r, domain.Stocks, "Failed to fetch stock data")
}

func (s *Server) indices(w http.ResponseWriter, r *http.Request) {
	s.records(w, r, domain.Indices, "Failed to fetch indices data")
}

// records writes the normalized records of d as a bare array
func (s *Server) records(w http.ResponseWriter, r *http.Request, d domain.Domain, failure string) {
	state := s.current(r.Context(), d)
	if !state.HasData() {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: failure})
		return
	}
	writeJSON(w, http.StatusOK, state.Outcome.Records)
}

func (s *Server) realEstate(w http.ResponseWriter, r *http.Request) {
	state := s.current(r.Context(), domain.RealEstate)
	if !state.Outcome.OK() || state.Outcome.Source == "" {
		msg := "no listings fetched yet"
		if state.Outcome.Err != nil {
			msg = state.Outcome.Err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, realEstateResponse{Error: msg})
		return
	}

	data := state.Outcome.Records
	if data == nil {
		data = []domain.Record{}
	}
	writeJSON(w, http.StatusOK, realEstateResponse{
		Success:   true,
		Count:     len(data),
		Data:      data,
		SearchURL: s.opts.SearchURL,
	})
}

// current returns the state of d, running the first refresh synchronously
// when the domain was never fetched. When that first refresh is already in
// flight it waits for it, bounded by the request context.
func (s *Server) current(ctx context.Context, d domain.Domain) coordinator.DomainState {
	state := s.coord.State(d)
	if state.Phase == coordinator.PhaseIdle {
		state, _ = s.coord.RefreshOne(s.opts.BaseContext, d)
	}
	if state.Phase == coordinator.PhaseFetching && state.LastUpdated.IsZero() {
		state, _ = s.coord.Await(ctx, d)
	}
	return state
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot := s.coord.Snapshot()
	states := make([]coordinator.DomainState, 0, len(snapshot))
	for _, d := range s.coord.Domains() {
		states = append(states, snapshot[d])
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) dashboardDomain(w http.ResponseWriter, r *http.Request) {
	d, ok := s.configured(chi.URLParam(r, "domain"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown domain"})
		return
	}
	writeJSON(w, http.StatusOK, s.coord.State(d))
}

func (s *Server) refreshAll(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, s.coord.Domains())
}

func (s *Server) refreshDomain(w http.ResponseWriter, r *http.Request) {
	d, ok := s.configured(chi.URLParam(r, "domain"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown domain"})
		return
	}
	s.trigger(w, []domain.Domain{d})
}

// trigger answers 202 with the started domains, or 409 when every requested
// domain was already fetching.
func (s *Server) trigger(w http.ResponseWriter, domains []domain.Domain) {
	started := s.coord.Trigger(s.opts.BaseContext, domains...)
	if len(started) == 0 {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "refresh already in progress"})
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Started: started})
}

func (s *Server) configured(name string) (domain.Domain, bool) {
	d, ok := domain.Parse(name)
	if !ok || !slices.Contains(s.coord.Domains(), d) {
		return "", false
	}
	return d, true
}
