package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/libao/libao-backend/internal/api/handlers"
	custommiddleware "github.com/libao/libao-backend/internal/api/middleware"
	"github.com/libao/libao-backend/internal/config"
	"github.com/libao/libao-backend/internal/repository"
	"github.com/libao/libao-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	portfolioService *service.PortfolioService,
	quoteService *service.QuoteService,
	dividendService *service.DividendService,
	roleRepo *repository.RoleRepository,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio/{userID}", func(r chi.Router) {
			r.Use(custommiddleware.Role(roleRepo))

			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
			r.Get("/", portfolioHandler.GetPortfolio)
			r.Put("/", portfolioHandler.SavePortfolio)
			r.Get("/summary", portfolioHandler.Summary)
			r.Post("/repair", portfolioHandler.Repair)

			orderHandler := handlers.NewOrderHandler(portfolioService)
			r.Post("/orders", orderHandler.ExecuteOrder)
			r.Delete("/transactions/{transactionID}", orderHandler.RevokeTransaction)

			capitalHandler := handlers.NewCapitalHandler(portfolioService)
			r.Post("/capital", capitalHandler.AddCapitalLog)
			r.Delete("/capital/{entryID}", capitalHandler.DeleteCapitalLog)

			categoryHandler := handlers.NewCategoryHandler(portfolioService)
			r.Post("/categories", categoryHandler.AddCategory)
			r.Put("/categories/{categoryID}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{categoryID}", categoryHandler.DeleteCategory)

			settingsHandler := handlers.NewSettingsHandler(portfolioService)
			r.Put("/settings", settingsHandler.UpdateSettings)

			dividendHandler := handlers.NewDividendHandler(dividendService)
			r.Post("/dividends/scan", dividendHandler.ScanDividends)
			r.Post("/dividends/confirm", dividendHandler.ConfirmDividend)

			priceHandler := handlers.NewPriceHandler(quoteService)
			r.Post("/prices/refresh", priceHandler.RefreshPrices)
		})
	})

	return r
}
