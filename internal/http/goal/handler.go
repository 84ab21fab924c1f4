package goal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/goal"
	"github.com/rbatista/grana/internal/ledger"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/contribute", h.contribute)
}

type goalRequest struct {
	AccountID    uuid.UUID       `json:"account_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Deadline     *string         `json:"deadline,omitempty"`
}

type goalResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Progress      decimal.Decimal `json:"progress"`
	Deadline      *string         `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toResponse(g *goal.SavingsGoal) goalResponse {
	resp := goalResponse{
		ID:            g.ID,
		AccountID:     g.AccountID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress(),
		CreatedAt:     g.CreatedAt,
	}

	if g.Deadline != nil {
		d := g.Deadline.Format(time.DateOnly)
		resp.Deadline = &d
	}

	return resp
}

func (r goalRequest) params() (goal.Params, error) {
	params := goal.Params{
		AccountID:    r.AccountID,
		Name:         r.Name,
		TargetAmount: r.TargetAmount,
	}

	if r.Deadline != nil {
		d, err := time.Parse(time.DateOnly, *r.Deadline)
		if err != nil {
			return goal.Params{}, errors.New("deadline must be YYYY-MM-DD")
		}

		params.Deadline = &d
	}

	return params, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Create(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(g)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, toResponse(&goals[i]))
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

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(g)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type contributeRequest struct {
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Contribute(r.Context(), id, req.AccountID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, goal.ErrNotFound), errors.Is(err, ledger.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, goal.ErrInsufficientBalance), errors.Is(err, goal.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(g)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
