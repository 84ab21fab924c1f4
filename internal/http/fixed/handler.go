package fixed

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
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type fixedItemRequest struct {
	AccountID   uuid.UUID         `json:"account_id"`
	Flow        ledger.FlowType   `json:"flow"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Category    string            `json:"category"`
	Recurrence  ledger.Recurrence `json:"recurrence"`
	StartDate   string            `json:"start_date"`
	EndDate     *string           `json:"end_date,omitempty"`
}

type fixedItemResponse struct {
	ID          uuid.UUID         `json:"id"`
	AccountID   uuid.UUID         `json:"account_id"`
	Flow        ledger.FlowType   `json:"flow"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Category    string            `json:"category,omitempty"`
	Recurrence  ledger.Recurrence `json:"recurrence"`
	StartDate   string            `json:"start_date"`
	EndDate     *string           `json:"end_date,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toResponse(item *ledger.FixedItem) fixedItemResponse {
	resp := fixedItemResponse{
		ID:          item.ID,
		AccountID:   item.AccountID,
		Flow:        item.Flow,
		Description: item.Description,
		Amount:      item.Amount,
		Category:    item.Category,
		Recurrence:  item.Recurrence,
		StartDate:   item.StartDate.Format(time.DateOnly),
		CreatedAt:   item.CreatedAt,
	}

	if item.EndDate != nil {
		end := item.EndDate.Format(time.DateOnly)
		resp.EndDate = &end
	}

	return resp
}

func (r fixedItemRequest) params() (ledger.FixedItemParams, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return ledger.FixedItemParams{}, errors.New("start_date must be YYYY-MM-DD")
	}

	params := ledger.FixedItemParams{
		AccountID:   r.AccountID,
		Flow:        r.Flow,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		Recurrence:  r.Recurrence,
		StartDate:   start,
	}

	if r.EndDate != nil {
		end, err := time.Parse(time.DateOnly, *r.EndDate)
		if err != nil {
			return ledger.FixedItemParams{}, errors.New("end_date must be YYYY-MM-DD")
		}

		params.EndDate = &end
	}

	return params, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req fixedItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.svc.CreateFixedItem(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListFixedItems(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]fixedItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req fixedItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := &ledger.FixedItem{
		ID:          id,
		AccountID:   params.AccountID,
		Flow:        params.Flow,
		Description: params.Description,
		Amount:      params.Amount,
		Category:    params.Category,
		Recurrence:  params.Recurrence,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
	}

	if err := h.svc.UpdateFixedItem(r.Context(), item); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "fixed item not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteFixedItem(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "fixed item not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
