// Package handler exposes the ledger core as a JSON management surface.
// It only translates requests into core operations; all validation and
// state lives below it.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/Dan9191/bet-tracker/internal/models"
	"github.com/Dan9191/bet-tracker/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches all routes to the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/aggregates", h.LogAggregate).Methods("POST")
	r.HandleFunc("/aggregates", h.ListAggregates).Methods("GET")
	r.HandleFunc("/aggregates", h.EditAggregate).Methods("PUT")
	r.HandleFunc("/aggregates/all", h.DeleteAllAggregates).Methods("DELETE")
	r.HandleFunc("/aggregates", h.DeleteAggregate).Methods("DELETE")

	r.HandleFunc("/bets", h.PlaceBet).Methods("POST")
	r.HandleFunc("/bets", h.ListBets).Methods("GET")
	r.HandleFunc("/bets/all", h.DeleteAllBets).Methods("DELETE")
	r.HandleFunc("/bets/{id:[0-9]+}", h.UpdateBet).Methods("PATCH")
	r.HandleFunc("/bets/{id:[0-9]+}", h.DeleteBet).Methods("DELETE")

	r.HandleFunc("/stats/series", h.CumulativeSeries).Methods("GET")
	r.HandleFunc("/stats/books", h.BookPerformance).Methods("GET")
	r.HandleFunc("/stats/all-time", h.AllTimeStats).Methods("GET")
	r.HandleFunc("/stats/{window}", h.WindowStats).Methods("GET")
}

type aggregateRequest struct {
	EventDate   string          `json:"event_date"`
	Book        string          `json:"book"`
	Granularity string          `json:"granularity"`
	TotalRisked decimal.Decimal `json:"total_risked"`
	TotalWon    decimal.Decimal `json:"total_won"`
}

func (req aggregateRequest) identity() (models.AggregateIdentity, error) {
	date, err := dates.ParseDate(req.EventDate)
	if err != nil {
		return models.AggregateIdentity{}, err
	}
	gran, err := dates.ParseGranularity(req.Granularity)
	if err != nil {
		return models.AggregateIdentity{}, err
	}
	if req.Book == "" {
		return models.AggregateIdentity{}, errors.New("book is required")
	}
	return models.AggregateIdentity{EventDate: date, Book: req.Book, Granularity: gran}, nil
}

// LogAggregate merges a submission into the matching aggregate row.
func (h *Handler) LogAggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := req.identity()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	possibleDup, err := h.svc.LogAggregate(id, req.TotalRisked, req.TotalWon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"possible_duplicate": possibleDup})
}

// ListAggregates returns all rows, or the newest N with ?recent=N.
func (h *Handler) ListAggregates(w http.ResponseWriter, r *http.Request) {
	if recent := r.URL.Query().Get("recent"); recent != "" {
		limit, err := strconv.Atoi(recent)
		if err != nil || limit <= 0 {
			writeBadRequest(w, errors.New("recent must be a positive integer"))
			return
		}
		entries, err := h.svc.RecentAggregates(limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}
	entries, err := h.svc.ListAggregates()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// EditAggregate overwrites an existing row's totals.
func (h *Handler) EditAggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := req.identity()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.svc.EditAggregate(id, req.TotalRisked, req.TotalWon); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAggregate removes the row identified by query parameters.
func (h *Handler) DeleteAggregate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := aggregateRequest{
		EventDate:   q.Get("event_date"),
		Book:        q.Get("book"),
		Granularity: q.Get("granularity"),
	}.identity()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.svc.DeleteAggregate(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteAllAggregates removes every aggregate row.
func (h *Handler) DeleteAllAggregates(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAllAggregates(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type betRequest struct {
	EventDate    string          `json:"event_date"`
	Book         string          `json:"book"`
	Description  string          `json:"description"`
	AmountRisked decimal.Decimal `json:"amount_risked"`
	AmericanOdds int             `json:"american_odds"`
	Status       string          `json:"status"`
}

type betResponse struct {
	Bet               models.Bet `json:"bet"`
	PossibleDuplicate bool       `json:"possible_duplicate"`
}

// PlaceBet records a new wager.
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	date, err := dates.ParseDate(req.EventDate)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	status, err := models.ParseBetStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	bet, possibleDup, err := h.svc.PlaceBet(models.Bet{
		EventDate:    date,
		Book:         req.Book,
		Description:  req.Description,
		AmountRisked: req.AmountRisked,
		AmericanOdds: req.AmericanOdds,
		Status:       status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, betResponse{Bet: bet, PossibleDuplicate: possibleDup})
}

// ListBets returns all bets.
func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	bets, err := h.svc.ListBets()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

// UpdateBet applies a partial update to a bet.
func (h *Handler) UpdateBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var patch models.BetUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, err)
		return
	}
	bet, err := h.svc.UpdateBet(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

// DeleteBet removes one bet.
func (h *Handler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.svc.DeleteBet(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteAllBets removes every bet.
func (h *Handler) DeleteAllBets(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAllBets(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// WindowStats returns KPIs for the named window.
func (h *Handler) WindowStats(w http.ResponseWriter, r *http.Request) {
	window, err := dates.ParseWindow(mux.Vars(r)["window"])
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	stats, err := h.svc.WindowStats(window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AllTimeStats returns KPIs over the full history.
func (h *Handler) AllTimeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.AllTimeStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CumulativeSeries returns the running profit/loss series.
func (h *Handler) CumulativeSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.CumulativeSeries()
	if err != nil {
		writeError(w, err)
		return
	}
	points := []models.SeriesPoint{}
	for point := range series {
		points = append(points, point)
	}
	writeJSON(w, http.StatusOK, points)
}

// BookPerformance returns net profit/loss per book.
func (h *Handler) BookPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.svc.BookPerformance()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidOdds),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidStatus):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
