package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlowType represents the direction of a transaction (income or expense).
type FlowType string

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

// Recurrence represents how often a fixed item repeats.
// Stepping semantics live in the projection package.
type Recurrence string

const (
	RecurrenceDaily        Recurrence = "daily"
	RecurrenceWeekly       Recurrence = "weekly"
	RecurrenceBiweekly     Recurrence = "biweekly"
	RecurrenceMonthly      Recurrence = "monthly"
	RecurrenceBimonthly    Recurrence = "bimonthly"
	RecurrenceQuarterly    Recurrence = "quarterly"
	RecurrenceSemiannually Recurrence = "semiannually"
	RecurrenceAnnually     Recurrence = "annually"
)

// CategoryTithe marks expenses that count as delivered tithe.
const CategoryTithe = "dizimo"

// Account represents a bank account. CurrentBalance is derived by the
// projection engine and persisted back; it is never authoritative on its own.
type Account struct {
	ID             uuid.UUID
	Name           string
	Currency       string // ISO 4217 code; amounts are never converted
	InitialBalance decimal.Decimal
	BalanceDate    time.Time // InitialBalance is authoritative as of this date
	MinBalance     decimal.Decimal
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Transaction represents a single income or expense movement.
// Amount is always positive; the sign is applied by Flow.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Flow        FlowType
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time // calendar date, midnight UTC
	FixedItemID *uuid.UUID
	Projected   bool // true for engine-synthesized occurrences, never stored
	CreatedAt   time.Time
}

// Transfer moves money between two accounts. The two legs carry independent
// caller-supplied amounts; no currency conversion is implied.
type Transfer struct {
	ID            uuid.UUID
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	FromAmount    decimal.Decimal
	ToAmount      decimal.Decimal
	Description   string
	Date          time.Time
	CreatedAt     time.Time
}

// FixedItem is a template for a recurring income or expense.
// EndDate nil means the item repeats until the caller's window ends.
type FixedItem struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Flow        FlowType
	Description string
	Amount      decimal.Decimal
	Category    string
	Recurrence  Recurrence
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// Snapshot is the full data set the projection engine computes over.
type Snapshot struct {
	Accounts   []Account
	Income     []Transaction
	Expenses   []Transaction
	Transfers  []Transfer
	FixedItems []FixedItem
}

// FixedByFlow returns the snapshot's fixed items with the given flow.
func (s Snapshot) FixedByFlow(flow FlowType) []FixedItem {
	var items []FixedItem

	for _, it := range s.FixedItems {
		if it.Flow == flow {
			items = append(items, it)
		}
	}

	return items
}

// Account returns the snapshot account with the given id, if present.
func (s Snapshot) Account(id uuid.UUID) (Account, bool) {
	for _, acc := range s.Accounts {
		if acc.ID == id {
			return acc, true
		}
	}

	return Account{}, false
}
