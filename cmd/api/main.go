package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rbatista/grana/internal/config"
	"github.com/rbatista/grana/internal/database"
	"github.com/rbatista/grana/internal/goal"
	goalStore "github.com/rbatista/grana/internal/goal/store"
	granaHttp "github.com/rbatista/grana/internal/http"
	accountHandler "github.com/rbatista/grana/internal/http/account"
	fixedHandler "github.com/rbatista/grana/internal/http/fixed"
	goalHandler "github.com/rbatista/grana/internal/http/goal"
	importHandler "github.com/rbatista/grana/internal/http/importcsv"
	matchingHandler "github.com/rbatista/grana/internal/http/matching"
	reportHandler "github.com/rbatista/grana/internal/http/report"
	scheduleHandler "github.com/rbatista/grana/internal/http/schedule"
	txHandler "github.com/rbatista/grana/internal/http/transaction"
	"github.com/rbatista/grana/internal/importer"
	"github.com/rbatista/grana/internal/ledger"
	ledgerStore "github.com/rbatista/grana/internal/ledger/store"
	"github.com/rbatista/grana/internal/matching"
	matchingStore "github.com/rbatista/grana/internal/matching/store"
	"github.com/rbatista/grana/internal/report"
	"github.com/rbatista/grana/internal/schedule"
	scheduleStore "github.com/rbatista/grana/internal/schedule/store"
)

func main() {
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
	defer db.Close()

	var (
		ledgerService   = ledger.NewService(ledgerStore.New(db))
		matchingService = matching.NewService(matchingStore.New(db))
		importService   = importer.NewService(matchingService)
		reportService   = report.NewService(ledgerService, cfg.PeriodPolicy())
		goalService     = goal.NewService(goalStore.New(db), ledgerService)
		scheduleService = schedule.NewService(scheduleStore.New(db))
	)

	var (
		accountH  = accountHandler.NewHandler(ledgerService)
		txH       = txHandler.NewHandler(ledgerService)
		fixedH    = fixedHandler.NewHandler(ledgerService)
		goalH     = goalHandler.NewHandler(goalService)
		scheduleH = scheduleHandler.NewHandler(scheduleService)
		reportH   = reportHandler.NewHandler(reportService, cfg.Finance.DefaultCurrency, cfg.Finance.ForecastDays)
		importH   = importHandler.NewHandler(importService, ledgerService)
		matchingH = matchingHandler.NewHandler(matchingService)
	)

	router := granaHttp.New(accountH, txH, fixedH, goalH, scheduleH, reportH, importH, matchingH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
