package schedule

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/schedule"
)

type Handler struct {
	svc *schedule.Service
}

func NewHandler(svc *schedule.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.book)
	r.Get("/", h.upcoming)
	r.Get("/slots", h.freeSlots)
	r.Delete("/{id}", h.cancel)
}

type bookRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Slot  string `json:"slot"`
	Notes string `json:"notes,omitempty"`
}

type appointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Slot      string    `json:"slot"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(appt *schedule.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        appt.ID,
		Title:     appt.Title,
		Date:      appt.Date.Format(time.DateOnly),
		Slot:      appt.Slot,
		Notes:     appt.Notes,
		CreatedAt: appt.CreatedAt,
	}
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Book(r.Context(), schedule.Params{
		Title: req.Title,
		Date:  date,
		Slot:  req.Slot,
		Notes: req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrSlotTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, schedule.ErrInvalidSlot):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(appt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	from := time.Now()

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		from = t
	}

	appts, err := h.svc.Upcoming(r.Context(), from)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]appointmentResponse, 0, len(appts))
	for i := range appts {
		resp = append(resp, toResponse(&appts[i]))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type freeSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

func (h *Handler) freeSlots(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("date")
	if s == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slots, err := h.svc.FreeSlots(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(freeSlotsResponse{Date: s, Slots: slots}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
