package matching

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription string          `json:"raw_description"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Flow           ledger.FlowType `json:"flow,omitempty"`
	Matched        bool            `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	sg, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := suggestResponse{RawDescription: rawDesc}

	if sg != nil {
		resp.Description = sg.Description
		resp.Category = sg.Category
		resp.Flow = sg.Flow
		resp.Matched = true
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern  string          `json:"raw_pattern"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Flow        ledger.FlowType `json:"flow"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.RawPattern == "" {
		http.Error(w, "raw_pattern is required", http.StatusBadRequest)
		return
	}

	err := h.svc.Learn(r.Context(), req.RawPattern, matching.Suggestion{
		Description: req.Description,
		Category:    req.Category,
		Flow:        req.Flow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
