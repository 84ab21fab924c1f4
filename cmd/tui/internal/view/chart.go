package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/projection"
	"github.com/rbatista/grana/internal/report"
)

const chartBarWidth = 30

var (
	incomeBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	projectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	negativeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

type ChartModel struct {
	CommonModel
	reportService *report.Service
	currency      string

	year    int
	buckets []projection.Bucket
	loading bool
	err     error
}

type chartLoadedMsg struct {
	buckets []projection.Bucket
	err     error
}

func NewChartModel(reportSvc *report.Service, currency string) ChartModel {
	return ChartModel{
		reportService: reportSvc,
		currency:      currency,
		year:          time.Now().Year(),
		loading:       true,
	}
}

func (m ChartModel) Title() string { return "Yearly Chart" }
func (m ChartModel) ShortHelp() string {
	return "Esc: back | ←/→: change year | r: refresh"
}

func (m ChartModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ChartModel) loadCmd() tea.Cmd {
	year := m.year

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		buckets, err := m.reportService.Chart(ctx, m.currency, year)

		return chartLoadedMsg{buckets: buckets, err: err}
	}
}

func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.buckets = msg.buckets

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "left", "h":
			m.year--
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.year++
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m ChartModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nEsc: back", m.err)
	}

	if m.loading {
		return fmt.Sprintf("Loading %d...", m.year)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %d\n\n", m.currency, m.year)

	if len(m.buckets) == 0 {
		b.WriteString("No accounts in this currency.\n")
		return lipgloss.NewStyle().Padding(1).Render(b.String() + "\n" + m.ShortHelp())
	}

	scale := bucketScale(m.buckets)

	for _, bucket := range m.buckets {
		label := bucket.Label
		if bucket.Projected {
			label = projectedStyle.Render(label + " *")
		}

		balance := bucket.Balance.StringFixed(2)
		if bucket.Balance.IsNegative() {
			balance = negativeStyle.Render(balance)
		}

		fmt.Fprintf(&b, "%-20s %s\n", label, incomeBarStyle.Render(bar(bucket.Income, scale)))
		fmt.Fprintf(&b, "%-20s %s\n", "", expenseBarStyle.Render(bar(bucket.Expenses, scale)))
		fmt.Fprintf(&b, "%-20s balance: %s\n\n", "", balance)
	}

	b.WriteString(projectedStyle.Render("* projected period"))

	return lipgloss.NewStyle().Padding(1).Render(b.String() + "\n\n" + m.ShortHelp())
}

// bucketScale finds the largest flow so bars share one scale.
func bucketScale(buckets []projection.Bucket) decimal.Decimal {
	maxFlow := decimal.Zero

	for _, b := range buckets {
		if b.Income.GreaterThan(maxFlow) {
			maxFlow = b.Income
		}

		if b.Expenses.GreaterThan(maxFlow) {
			maxFlow = b.Expenses
		}
	}

	return maxFlow
}

func bar(value, scale decimal.Decimal) string {
	if !scale.IsPositive() || !value.IsPositive() {
		return ""
	}

	width := value.Div(scale).Mul(decimal.NewFromInt(chartBarWidth)).Round(0).IntPart()
	if width < 1 {
		width = 1
	}

	if width > chartBarWidth {
		width = chartBarWidth
	}

	return strings.Repeat("█", int(width)) + " " + value.StringFixed(2)
}
