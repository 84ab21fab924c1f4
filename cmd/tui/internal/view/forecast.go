package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
	"github.com/rbatista/grana/internal/report"
)

type forecastState int

const (
	forecastStatePickAccount forecastState = iota
	forecastStateShow
)

type ForecastModel struct {
	CommonModel
	ledgerService *ledger.Service
	reportService *report.Service

	state       forecastState
	horizonDays int

	accountTable table.Model
	accounts     []ledger.Account
	selected     *ledger.Account

	result  projection.ForecastResult
	loading bool
	err     error
}

type forecastAccountsMsg struct {
	accounts []ledger.Account
	err      error
}

type forecastLoadedMsg struct {
	result projection.ForecastResult
	err    error
}

func NewForecastModel(ledgerSvc *ledger.Service, reportSvc *report.Service, horizonDays int) ForecastModel {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Currency", Width: 8},
		{Title: "Balance", Width: 15},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return ForecastModel{
		ledgerService: ledgerSvc,
		reportService: reportSvc,
		horizonDays:   horizonDays,
		accountTable:  t,
		loading:       true,
	}
}

func (m ForecastModel) Title() string { return "Forecast" }
func (m ForecastModel) ShortHelp() string {
	if m.state == forecastStatePickAccount {
		return "Esc: back | Enter: forecast account"
	}

	return "Esc: back to accounts"
}

func (m ForecastModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.ledgerService.ListAccounts(ctx)

		return forecastAccountsMsg{accounts: accounts, err: err}
	}
}

func (m ForecastModel) loadForecastCmd(acc ledger.Account) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.reportService.Forecast(ctx, acc.ID, m.horizonDays)

		return forecastLoadedMsg{result: result, err: err}
	}
}

func (m ForecastModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case forecastAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts

		rows := make([]table.Row, 0, len(m.accounts))
		for _, acc := range m.accounts {
			rows = append(rows, table.Row{acc.Name, acc.Currency, acc.CurrentBalance.StringFixed(2)})
		}

		m.accountTable.SetRows(rows)

		return m, nil

	case forecastLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.result = msg.result

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case forecastStatePickAccount:
			switch msg.String() {
			case "esc", "q":
				return m, Back
			case "enter":
				idx := m.accountTable.Cursor()
				if idx < 0 || idx >= len(m.accounts) {
					return m, nil
				}

				m.selected = &m.accounts[idx]
				m.state = forecastStateShow
				m.loading = true

				return m, m.loadForecastCmd(*m.selected)
			}
		case forecastStateShow:
			if msg.String() == "esc" || msg.String() == "q" {
				m.state = forecastStatePickAccount
				m.selected = nil

				return m, nil
			}
		}
	}

	if m.state == forecastStatePickAccount {
		var cmd tea.Cmd
		m.accountTable, cmd = m.accountTable.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ForecastModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return "Loading..."
	}

	if m.state == forecastStatePickAccount {
		return lipgloss.NewStyle().Padding(1).Render(
			"Pick an account to forecast\n\n" + m.accountTable.View() + "\n\n" + m.ShortHelp(),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(m.renderForecast() + "\n\n" + m.ShortHelp())
}

func (m ForecastModel) renderForecast() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s, next %d days\n\n", m.selected.Name, m.horizonDays)

	if len(m.result.Transactions) == 0 {
		b.WriteString("No fixed items scheduled in this horizon.\n")
	}

	for _, day := range m.result.DailySummary {
		if len(day.Transactions) == 0 {
			continue
		}

		for _, tx := range day.Transactions {
			sign := "+"
			if tx.Flow == ledger.FlowExpense {
				sign = "-"
			}

			line := fmt.Sprintf("%s  %s%s  %-30s  → %s",
				FormatDate(day.Date), sign, tx.Amount.StringFixed(2), tx.Description, tx.Balance.StringFixed(2))

			if tx.Balance.LessThan(m.selected.MinBalance) {
				line = negativeStyle.Render(line)
			}

			b.WriteString(line + "\n")
		}
	}

	if last := len(m.result.DailySummary); last > 0 {
		end := m.result.DailySummary[last-1]
		fmt.Fprintf(&b, "\nBalance on %s: %s\n", FormatDate(end.Date), FormatMoney(end.Balance, end.Currency))
	}

	return b.String()
}
