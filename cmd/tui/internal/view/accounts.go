package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/report"
)

type AccountsModel struct {
	CommonModel
	reportService *report.Service

	table    table.Model
	accounts []ledger.Account
	loading  bool
	err      error
}

type accountsLoadedMsg struct {
	accounts []ledger.Account
	err      error
}

func NewAccountsModel(reportSvc *report.Service) AccountsModel {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Currency", Width: 8},
		{Title: "Balance", Width: 15},
		{Title: "Min Balance", Width: 15},
		{Title: "Balance Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return AccountsModel{
		reportService: reportSvc,
		table:         t,
		loading:       true,
	}
}

func (m AccountsModel) Title() string { return "Accounts" }
func (m AccountsModel) ShortHelp() string {
	return "Esc: back | r: recalculate balances"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

// loadCmd recomputes and persists balances before listing, so the table
// always shows replayed numbers rather than stale stored ones.
func (m AccountsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.reportService.Balances(ctx)

		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))

	for _, acc := range m.accounts {
		rows = append(rows, table.Row{
			acc.Name,
			acc.Currency,
			acc.CurrentBalance.StringFixed(2),
			acc.MinBalance.StringFixed(2),
			FormatDate(acc.BalanceDate),
		})
	}

	m.table.SetRows(rows)
}

func (m AccountsModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return "Recalculating balances..."
	}

	return lipgloss.NewStyle().Padding(1).Render(m.table.View() + "\n\n" + m.ShortHelp())
}
