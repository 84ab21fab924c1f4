package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
	"github.com/rbatista/grana/internal/report"
)

type Handler struct {
	svc             *report.Service
	defaultCurrency string
	forecastDays    int
}

func NewHandler(svc *report.Service, defaultCurrency string, forecastDays int) *Handler {
	return &Handler{svc: svc, defaultCurrency: defaultCurrency, forecastDays: forecastDays}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/chart", h.chart)
	r.Get("/forecast/{accountID}", h.forecast)
	r.Get("/tithe", h.tithe)
	r.Post("/tithe/deliver", h.deliverTithe)
	r.Post("/balances/recalculate", h.recalculate)
	r.Post("/fixed/materialize", h.materialize)
}

type bucketResponse struct {
	Label          string          `json:"label"`
	Start          string          `json:"start"`
	End            string          `json:"end"`
	Income         decimal.Decimal `json:"income"`
	FixedExpenses  decimal.Decimal `json:"fixed_expenses"`
	CommonExpenses decimal.Decimal `json:"common_expenses"`
	Expenses       decimal.Decimal `json:"expenses"`
	Balance        decimal.Decimal `json:"balance"`
	Projected      bool            `json:"projected"`
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = h.defaultCurrency
	}

	year := time.Now().UTC().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		year = y
	}

	buckets, err := h.svc.Chart(r.Context(), currency, year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		resp = append(resp, bucketResponse{
			Label:          b.Label,
			Start:          b.Period.Start.Format(time.DateOnly),
			End:            b.Period.End.Format(time.DateOnly),
			Income:         b.Income,
			FixedExpenses:  b.FixedExpenses,
			CommonExpenses: b.CommonExpenses,
			Expenses:       b.Expenses,
			Balance:        b.Balance,
			Projected:      b.Projected,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type forecastDayResponse struct {
	Date         string          `json:"date"`
	Currency     string          `json:"currency"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []forecastTxResponse `json:"transactions,omitempty"`
}

type forecastTxResponse struct {
	Description string          `json:"description"`
	Flow        ledger.FlowType `json:"flow"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Balance     decimal.Decimal `json:"balance"`
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	days := h.forecastDays

	if s := r.URL.Query().Get("days"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d <= 0 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}

		days = d
	}

	result, err := h.svc.Forecast(r.Context(), accountID, days)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := make([]forecastDayResponse, 0, len(result.DailySummary))
	for _, day := range result.DailySummary {
		resp = append(resp, toForecastDay(day))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toForecastDay(day projection.ForecastDay) forecastDayResponse {
	resp := forecastDayResponse{
		Date:     day.Date.Format(time.DateOnly),
		Currency: day.Currency,
		Balance:  day.Balance,
	}

	for _, tx := range day.Transactions {
		resp.Transactions = append(resp.Transactions, forecastTxResponse{
			Description: tx.Description,
			Flow:        tx.Flow,
			Amount:      tx.Amount,
			Date:        tx.Date.Format(time.DateOnly),
			Balance:     tx.Balance,
		})
	}

	return resp
}

type titheEntryResponse struct {
	Currency  string          `json:"currency"`
	Income    decimal.Decimal `json:"income"`
	Due       decimal.Decimal `json:"due"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// titheMonth reads year/month query params, defaulting to the current month.
func titheMonth(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errors.New("invalid year")
		}

		year = y
	}

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errors.New("invalid month")
		}

		month = time.Month(m)
	}

	return year, month, nil
}

func (h *Handler) tithe(w http.ResponseWriter, r *http.Request) {
	year, month, err := titheMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.svc.Tithe(r.Context(), year, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]titheEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, titheEntryResponse{
			Currency:  e.Currency,
			Income:    e.Income,
			Due:       e.Due,
			Paid:      e.Paid,
			Remaining: e.Remaining,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type deliverTitheRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
}

func (h *Handler) deliverTithe(w http.ResponseWriter, r *http.Request) {
	var req deliverTitheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Month < 1 || req.Month > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.DeliverTithe(r.Context(), req.Year, time.Month(req.Month), req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, "account not found", http.StatusNotFound)
		case errors.Is(err, report.ErrTitheSettled), errors.Is(err, report.ErrInsufficientBalance):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(map[string]any{
		"id":     tx.ID,
		"amount": tx.Amount,
		"date":   tx.Date.Format(time.DateOnly),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type balanceResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.Balances(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]balanceResponse, 0, len(accounts))
	for _, acc := range accounts {
		resp = append(resp, balanceResponse{
			AccountID: acc.ID,
			Name:      acc.Name,
			Currency:  acc.Currency,
			Balance:   acc.CurrentBalance,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) materialize(w http.ResponseWriter, r *http.Request) {
	created, err := h.svc.MaterializeCurrentPeriod(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]int{"materialized": len(created)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
