package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
	"github.com/rbatista/grana/internal/report"
)

type titheState int

const (
	titheStateSummary titheState = iota
	titheStatePickAccount
)

// TitheModel shows the per-currency tithe position for a month and lets the
// user deliver the outstanding amount from one of the accounts.
type TitheModel struct {
	CommonModel
	reportService *report.Service

	state    titheState
	year     int
	month    time.Month
	entries  []projection.TitheEntry
	accounts []ledger.Account
	picker   table.Model
	loading  bool
	status   string
	err      error
}

type titheLoadedMsg struct {
	entries []projection.TitheEntry
	err     error
}

type titheAccountsMsg struct {
	accounts []ledger.Account
	err      error
}

type titheDeliveredMsg struct {
	err error
}

func NewTitheModel(reportSvc *report.Service) TitheModel {
	now := time.Now()

	return TitheModel{
		reportService: reportSvc,
		year:          now.Year(),
		month:         now.Month(),
		loading:       true,
	}
}

func (m TitheModel) Title() string { return "Tithe" }
func (m TitheModel) ShortHelp() string {
	return "←/→: month | d: deliver | Esc: back"
}

func (m TitheModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TitheModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.reportService.Tithe(ctx, m.year, m.month)

		return titheLoadedMsg{entries: entries, err: err}
	}
}

func (m TitheModel) loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.reportService.Balances(ctx)

		return titheAccountsMsg{accounts: accounts, err: err}
	}
}

func (m TitheModel) deliverCmd(acc ledger.Account) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.reportService.DeliverTithe(ctx, m.year, m.month, acc.ID)

		return titheDeliveredMsg{err: err}
	}
}

func (m TitheModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case titheLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.entries = msg.entries

		return m, nil

	case titheAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts
		m.state = titheStatePickAccount
		m.buildPicker()

		return m, nil

	case titheDeliveredMsg:
		m.state = titheStateSummary
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = "Tithe delivered."
		m.loading = true

		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			if m.state == titheStatePickAccount {
				m.state = titheStateSummary
				return m, nil
			}

			return m, Back
		case "left":
			if m.state == titheStateSummary {
				m.year, m.month = prevMonth(m.year, m.month)
				m.loading = true
				m.status = ""

				return m, m.loadCmd()
			}
		case "right":
			if m.state == titheStateSummary {
				m.year, m.month = nextMonth(m.year, m.month)
				m.loading = true
				m.status = ""

				return m, m.loadCmd()
			}
		case "d":
			if m.state == titheStateSummary && len(m.entries) > 0 {
				m.loading = true
				return m, m.loadAccountsCmd()
			}
		case "enter":
			if m.state == titheStatePickAccount && len(m.accounts) > 0 {
				acc := m.accounts[m.picker.Cursor()]
				m.loading = true

				return m, m.deliverCmd(acc)
			}
		}
	}

	if m.state == titheStatePickAccount {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *TitheModel) buildPicker() {
	columns := []table.Column{
		{Title: "Account", Width: 25},
		{Title: "Currency", Width: 8},
		{Title: "Balance", Width: 15},
	}

	rows := make([]table.Row, 0, len(m.accounts))
	for _, acc := range m.accounts {
		rows = append(rows, table.Row{
			acc.Name,
			acc.Currency,
			acc.CurrentBalance.StringFixed(2),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
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

	m.picker = t
}

func (m TitheModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return "Loading..."
	}

	if m.state == titheStatePickAccount {
		header := "Deliver tithe from which account?\n\n"
		return lipgloss.NewStyle().Padding(1).Render(header + m.picker.View() + "\n\nEnter: deliver | Esc: cancel")
	}

	out := fmt.Sprintf("Tithe for %s %d\n\n", m.month, m.year)

	if len(m.entries) == 0 {
		out += "No income recorded this month."
	}

	for _, e := range m.entries {
		out += fmt.Sprintf("%s  income %s  due %s  paid %s  remaining %s\n",
			e.Currency,
			e.Income.StringFixed(2),
			e.Due.StringFixed(2),
			e.Paid.StringFixed(2),
			e.Remaining.StringFixed(2),
		)
	}

	if m.status != "" {
		out += "\n" + m.status
	}

	out += "\n" + m.ShortHelp()

	return lipgloss.NewStyle().Padding(1).Render(out)
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}

	return year, month - 1
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}

	return year, month + 1
}
