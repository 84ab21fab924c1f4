package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
)

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Flow        ledger.FlowType `json:"flow"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Date        string          `json:"date"`
	FixedItemID *uuid.UUID      `json:"fixed_item_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Flow:        tx.Flow,
		Amount:      tx.Amount,
		Description: tx.Description,
		Category:    tx.Category,
		Date:        tx.Date.Format(time.DateOnly),
		FixedItemID: tx.FixedItemID,
		CreatedAt:   tx.CreatedAt,
	}
}

type transferResponse struct {
	ID            uuid.UUID       `json:"id"`
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	FromAmount    decimal.Decimal `json:"from_amount"`
	ToAmount      decimal.Decimal `json:"to_amount"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toTransferResponse(tr *ledger.Transfer) transferResponse {
	return transferResponse{
		ID:            tr.ID,
		FromAccountID: tr.FromAccountID,
		ToAccountID:   tr.ToAccountID,
		FromAmount:    tr.FromAmount,
		ToAmount:      tr.ToAmount,
		Description:   tr.Description,
		Date:          tr.Date.Format(time.DateOnly),
		CreatedAt:     tr.CreatedAt,
	}
}
