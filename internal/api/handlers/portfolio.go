package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/api/middleware"
	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio state endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// GetPortfolio handles GET requests for a user's full portfolio state.
// The martingale collection is stripped for roles that may not see it.
//
// Endpoint: GET /api/portfolio/{userID}
// Response: 200 OK with PortfolioState
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	state, err := h.portfolioService.GetPortfolio(userID, role)
	if err != nil {
		respondDomainError(w, err, apperrors.ErrFailedToLoadPortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}

// SavePortfolio handles PUT requests replacing a user's portfolio state.
// A state whose baseline is older than the stored snapshot is rejected.
//
// Endpoint: PUT /api/portfolio/{userID}
// Request Body: PortfolioState
// Response: 200 OK with the saved PortfolioState
// Error: 400 Bad Request if the body is invalid
// Error: 409 Conflict if the incoming state is older than the stored state
// Error: 500 Internal Server Error if persisting fails
func (h *PortfolioHandler) SavePortfolio(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	state, err := parseJSON[model.PortfolioState](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	saved, err := h.portfolioService.SavePortfolio(userID, state, role)
	if err != nil {
		respondDomainError(w, err, apperrors.ErrFailedToSavePortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, saved)
}

// Summary handles GET requests for the derived valuation view.
//
// Endpoint: GET /api/portfolio/{userID}/summary
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if the calculation fails
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	summary, err := h.portfolioService.GetSummary(userID, role)
	if err != nil {
		respondDomainError(w, err, apperrors.ErrFailedToGetSummary.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Repair handles POST requests that rebuild all holdings from the
// transaction log. Running it on a consistent ledger is a no-op.
//
// Endpoint: POST /api/portfolio/{userID}/repair
// Response: 200 OK with the rebuilt PortfolioState
// Error: 500 Internal Server Error if the rebuild fails
func (h *PortfolioHandler) Repair(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	state, err := h.portfolioService.RepairPortfolio(userID, role)
	if err != nil {
		respondDomainError(w, err, apperrors.ErrFailedToLoadPortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}
