package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rbatista/grana/internal/http/account"
	"github.com/rbatista/grana/internal/http/fixed"
	"github.com/rbatista/grana/internal/http/goal"
	"github.com/rbatista/grana/internal/http/importcsv"
	"github.com/rbatista/grana/internal/http/matching"
	"github.com/rbatista/grana/internal/http/report"
	"github.com/rbatista/grana/internal/http/schedule"
	"github.com/rbatista/grana/internal/http/transaction"
)

func New(
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	fixedV1 *fixed.Handler,
	goalsV1 *goal.Handler,
	scheduleV1 *schedule.Handler,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
	matchingV1 *matching.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.TransferRoutes(r)
		})

		r.Route("/fixed-items", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			fixedV1.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			goalsV1.Routes(r)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			scheduleV1.Routes(r)
		})

		r.Route("/reports", func(r chi.Router) {
			reportsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/matching", func(r chi.Router) {
			matchingV1.Routes(r)
		})
	})

	return router
}
