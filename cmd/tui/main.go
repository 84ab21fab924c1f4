package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/rbatista/grana/cmd/tui/internal/view"
	"github.com/rbatista/grana/internal/config"
	"github.com/rbatista/grana/internal/database"
	"github.com/rbatista/grana/internal/ledger"
	ledgerStore "github.com/rbatista/grana/internal/ledger/store"
	"github.com/rbatista/grana/internal/matching"
	matchingStore "github.com/rbatista/grana/internal/matching/store"
	"github.com/rbatista/grana/internal/report"
)

type model struct {
	ledgerService   *ledger.Service
	matchingService *matching.Service
	reportService   *report.Service

	currency    string
	horizonDays int

	currentView View

	accountsView view.AccountsModel
	chartView    view.ChartModel
	forecastView view.ForecastModel
	quickAddView view.QuickAddModel
	titheView    view.TitheModel
}

type View int

const (
	ViewMenu     View = 0
	ViewAccounts View = 1
	ViewChart    View = 2
	ViewForecast View = 3
	ViewQuickAdd View = 4
	ViewTithe    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(db))
	matchSvc := matching.NewService(matchingStore.New(db))
	reportSvc := report.NewService(ledgerSvc, cfg.PeriodPolicy())

	return model{
		ledgerService:   ledgerSvc,
		matchingService: matchSvc,
		reportService:   reportSvc,
		currency:        cfg.Finance.DefaultCurrency,
		horizonDays:     cfg.Finance.ForecastDays,
		currentView:     ViewMenu,
		accountsView:    view.NewAccountsModel(reportSvc),
		chartView:       view.NewChartModel(reportSvc, cfg.Finance.DefaultCurrency),
		forecastView:    view.NewForecastModel(ledgerSvc, reportSvc, cfg.Finance.ForecastDays),
		quickAddView:    view.NewQuickAddModel(ledgerSvc, matchSvc),
		titheView:       view.NewTitheModel(reportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.reportService)

				return m, m.accountsView.Init()
			case "2":
				m.currentView = ViewChart
				m.chartView = view.NewChartModel(m.reportService, m.currency)

				return m, m.chartView.Init()
			case "3":
				m.currentView = ViewForecast
				m.forecastView = view.NewForecastModel(m.ledgerService, m.reportService, m.horizonDays)

				return m, m.forecastView.Init()
			case "4":
				m.currentView = ViewQuickAdd
				m.quickAddView = view.NewQuickAddModel(m.ledgerService, m.matchingService)

				return m, m.quickAddView.Init()
			case "5":
				m.currentView = ViewTithe
				m.titheView = view.NewTitheModel(m.reportService)

				return m, m.titheView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewChart:
		var newModel tea.Model
		newModel, cmd = m.chartView.Update(msg)
		m.chartView = newModel.(view.ChartModel)
	case ViewForecast:
		var newModel tea.Model
		newModel, cmd = m.forecastView.Update(msg)
		m.forecastView = newModel.(view.ForecastModel)
	case ViewQuickAdd:
		var newModel tea.Model
		newModel, cmd = m.quickAddView.Update(msg)
		m.quickAddView = newModel.(view.QuickAddModel)
	case ViewTithe:
		var newModel tea.Model
		newModel, cmd = m.titheView.Update(msg)
		m.titheView = newModel.(view.TitheModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Grana\n\n" +
				"1. Accounts\n" +
				"2. Cash Flow Chart\n" +
				"3. Forecast\n" +
				"4. Quick Add Transaction\n" +
				"5. Tithe\n\n" +
				"q. Quit",
		)
	case ViewAccounts:
		return m.accountsView.View()
	case ViewChart:
		return m.chartView.View()
	case ViewForecast:
		return m.forecastView.View()
	case ViewQuickAdd:
		return m.quickAddView.View()
	case ViewTithe:
		return m.titheView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
