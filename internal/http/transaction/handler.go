package transaction

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
	r.Delete("/{id}", h.delete)
}

// TransferRoutes mounts the transfer endpoints; transfers live next to
// transactions since they are the third movement kind in the ledger.
func (h *Handler) TransferRoutes(r chi.Router) {
	r.Post("/", h.createTransfer)
	r.Get("/", h.listTransfers)
	r.Delete("/{id}", h.deleteTransfer)
}

type createRequest struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Flow        ledger.FlowType `json:"flow"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.CreateTransaction(r.Context(), ledger.TransactionParams{
		AccountID:   req.AccountID,
		Flow:        req.Flow,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter ledger.TransactionFilter

	q := r.URL.Query()

	if s := q.Get("flow"); s != "" {
		flow := ledger.FlowType(s)
		filter.Flow = &flow
	}

	if s := q.Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		filter.AccountID = &id
	}

	if s := q.Get("category"); s != "" {
		filter.Category = &s
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	txs, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		resp = append(resp, toResponse(&txs[i]))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createTransferRequest struct {
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	FromAmount    decimal.Decimal `json:"from_amount"`
	ToAmount      decimal.Decimal `json:"to_amount"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tr, err := h.svc.CreateTransfer(r.Context(), ledger.TransferParams{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		FromAmount:    req.FromAmount,
		ToAmount:      req.ToAmount,
		Description:   req.Description,
		Date:          date,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toTransferResponse(tr)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.svc.ListTransfers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]transferResponse, 0, len(transfers))
	for i := range transfers {
		resp = append(resp, toTransferResponse(&transfers[i]))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteTransfer(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
