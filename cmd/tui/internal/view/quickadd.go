package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/matching"
)

// QuickAddModel is a one-shot form for recording a transaction. When the
// category is left blank the learned matching rules fill it in; when it is
// given, the pair is learned for future imports.
type QuickAddModel struct {
	CommonModel
	ledgerService   *ledger.Service
	matchingService *matching.Service

	form     *huh.Form
	accounts []ledger.Account

	formAccount  string
	formFlow     string
	formAmount   string
	formDesc     string
	formCategory string
	formDate     string

	status  string
	err     error
	saving  bool
	loading bool
}

type quickAddAccountsMsg struct {
	accounts []ledger.Account
	err      error
}

type quickAddSavedMsg struct {
	err error
}

func NewQuickAddModel(ledgerSvc *ledger.Service, matchSvc *matching.Service) QuickAddModel {
	return QuickAddModel{
		ledgerService:   ledgerSvc,
		matchingService: matchSvc,
		formDate:        time.Now().Format(time.DateOnly),
		loading:         true,
	}
}

func (m QuickAddModel) Title() string     { return "Quick Add" }
func (m QuickAddModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m QuickAddModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.ledgerService.ListAccounts(ctx)

		return quickAddAccountsMsg{accounts: accounts, err: err}
	}
}

func (m *QuickAddModel) buildForm() {
	accountOptions := make([]huh.Option[string], 0, len(m.accounts))
	for _, acc := range m.accounts {
		accountOptions = append(accountOptions, huh.NewOption(acc.Name, acc.ID.String()))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(accountOptions...).
				Value(&m.formAccount),
			huh.NewSelect[string]().
				Title("Flow").
				Options(
					huh.NewOption("Expense", string(ledger.FlowExpense)),
					huh.NewOption("Income", string(ledger.FlowIncome)),
				).
				Value(&m.formFlow),
			huh.NewInput().
				Title("Amount").
				Placeholder("123.45").
				Value(&m.formAmount),
			huh.NewInput().
				Title("Description").
				Value(&m.formDesc),
			huh.NewInput().
				Title("Category (blank = suggest)").
				Value(&m.formCategory),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate),
		),
	)
}

func (m QuickAddModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accountID, err := uuid.Parse(m.formAccount)
		if err != nil {
			return quickAddSavedMsg{err: fmt.Errorf("invalid account: %w", err)}
		}

		amount, err := decimal.NewFromString(m.formAmount)
		if err != nil {
			return quickAddSavedMsg{err: fmt.Errorf("invalid amount: %w", err)}
		}

		date, err := time.Parse(time.DateOnly, m.formDate)
		if err != nil {
			return quickAddSavedMsg{err: fmt.Errorf("invalid date: %w", err)}
		}

		description := m.formDesc
		category := m.formCategory

		if category == "" {
			if sg, err := m.matchingService.Suggest(ctx, description); err == nil && sg != nil {
				category = sg.Category
			}
		} else {
			_ = m.matchingService.Learn(ctx, description, matching.Suggestion{
				Description: description,
				Category:    category,
				Flow:        ledger.FlowType(m.formFlow),
			})
		}

		_, err = m.ledgerService.CreateTransaction(ctx, ledger.TransactionParams{
			AccountID:   accountID,
			Flow:        ledger.FlowType(m.formFlow),
			Amount:      amount,
			Description: description,
			Category:    category,
			Date:        date,
		})

		return quickAddSavedMsg{err: err}
	}
}

func (m QuickAddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case quickAddAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts
		m.buildForm()

		return m, m.form.Init()

	case quickAddSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.buildForm()

			return m, m.form.Init()
		}

		return m, Back

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, Back
		}
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.saving {
		m.saving = true
		return m, m.saveCmd()
	}

	return m, cmd
}

func (m QuickAddModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return "Loading accounts..."
	}

	if m.saving {
		return "Saving..."
	}

	out := m.form.View()
	if m.status != "" {
		out += "\n" + m.status
	}

	return lipgloss.NewStyle().Padding(1).Render(out)
}
