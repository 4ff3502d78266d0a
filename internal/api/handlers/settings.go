package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/api/middleware"
	"github.com/libao/libao-backend/internal/api/request"
	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/service"
	"github.com/libao/libao-backend/internal/validation"
)

// SettingsHandler handles HTTP requests for portfolio settings.
type SettingsHandler struct {
	portfolioService *service.PortfolioService
}

// NewSettingsHandler creates a new SettingsHandler with the provided service dependency.
func NewSettingsHandler(portfolioService *service.PortfolioService) *SettingsHandler {
	return &SettingsHandler{
		portfolioService: portfolioService,
	}
}

// UpdateSettings handles PUT requests replacing portfolio settings. A new
// market data token is encrypted before storage; a blank or masked token
// keeps the stored one.
//
// Endpoint: PUT /api/portfolio/{userID}/settings
// Request Body: UpdateSettingsRequest
// Response: 200 OK with the resulting state
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if persisting fails
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	req, err := parseJSON[request.UpdateSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	settings := model.Settings{
		USDExchangeRate: req.USDExchangeRate,
		MarketDataToken: req.MarketDataToken,
	}

	state, err := h.portfolioService.UpdateSettings(userID, role, settings)
	if err != nil {
		respondDomainError(w, err, "failed to update settings")
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}
