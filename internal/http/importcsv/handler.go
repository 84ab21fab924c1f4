package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/importer"
	"github.com/rbatista/grana/internal/ledger"
)

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{importSvc: importSvc, ledgerSvc: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.preview)
	r.Post("/confirm", h.confirm)
}

type rowDTO struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Flow        ledger.FlowType `json:"flow"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Date        string          `json:"date"`
}

type previewResponse struct {
	Parsed int      `json:"parsed"`
	Rows   []rowDTO `json:"rows"`
}

// preview parses the uploaded statement and returns the rows without
// persisting them, so the user can review categories before confirming.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	accountID, err := uuid.Parse(r.FormValue("account_id"))
	if err != nil {
		http.Error(w, "account_id field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(r.Context(), bank, accountID, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]rowDTO, 0, len(params))
	for _, p := range params {
		rows = append(rows, rowDTO{
			AccountID:   p.AccountID,
			Flow:        p.Flow,
			Amount:      p.Amount,
			Description: p.Description,
			Category:    p.Category,
			Date:        p.Date.Format(time.DateOnly),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(previewResponse{Parsed: len(rows), Rows: rows}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type confirmRequest struct {
	Rows []rowDTO `json:"rows"`
}

type confirmResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	txs := make([]ledger.Transaction, 0, len(req.Rows))

	for _, row := range req.Rows {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		txs = append(txs, ledger.Transaction{
			AccountID:   row.AccountID,
			Flow:        row.Flow,
			Amount:      row.Amount,
			Description: row.Description,
			Category:    row.Category,
			Date:        date,
		})
	}

	if err := h.ledgerSvc.CreateTransactions(r.Context(), txs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(confirmResponse{Imported: len(txs)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
