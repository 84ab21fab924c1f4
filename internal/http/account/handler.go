package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type accountRequest struct {
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	BalanceDate    string          `json:"balance_date"`
	MinBalance     decimal.Decimal `json:"min_balance"`
}

type accountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	BalanceDate    string          `json:"balance_date"`
	MinBalance     decimal.Decimal `json:"min_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toResponse(acc *ledger.Account) accountResponse {
	return accountResponse{
		ID:             acc.ID,
		Name:           acc.Name,
		Currency:       acc.Currency,
		InitialBalance: acc.InitialBalance,
		BalanceDate:    acc.BalanceDate.Format(time.DateOnly),
		MinBalance:     acc.MinBalance,
		CurrentBalance: acc.CurrentBalance,
		CreatedAt:      acc.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	balanceDate, err := time.Parse(time.DateOnly, req.BalanceDate)
	if err != nil {
		http.Error(w, "balance_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	acc, err := h.svc.CreateAccount(r.Context(), ledger.AccountParams{
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
		BalanceDate:    balanceDate,
		MinBalance:     req.MinBalance,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(acc)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, toResponse(&accounts[i]))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	acc, err := h.svc.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(acc)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	balanceDate, err := time.Parse(time.DateOnly, req.BalanceDate)
	if err != nil {
		http.Error(w, "balance_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	acc, err := h.svc.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	acc.Name = req.Name
	acc.Currency = req.Currency
	acc.InitialBalance = req.InitialBalance
	acc.BalanceDate = balanceDate
	acc.MinBalance = req.MinBalance

	if err := h.svc.UpdateAccount(r.Context(), acc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(acc)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
