package api

import (
	"net/http"

	"budget-planner-server/src/config"
	"budget-planner-server/src/handlers"
	"budget-planner-server/src/middleware"
	"budget-planner-server/src/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, sessions session.Store, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigin))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool, sessions, cfg))
		r.Post("/register", handlers.Register(pool, sessions, cfg))
	})

	r.Route("/api", func(r chi.Router) {
		// Logout stays outside the auth guard: destroying an absent or
		// expired session is still a success.
		r.Post("/logout", handlers.Logout(sessions, cfg))

		// Protected routes
		r.With(middleware.SessionAuthMiddleware(sessions)).Group(func(r chi.Router) {
			r.Get("/session", handlers.Session())

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.ListTransactions(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))
		})
	})

	// Everything else is the static frontend.
	r.NotFound(handlers.StaticSite(cfg.StaticDir))

	return r
}
