package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/service"
)

// PriceHandler handles HTTP requests for on-demand price refreshes.
type PriceHandler struct {
	quoteService *service.QuoteService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(quoteService *service.QuoteService) *PriceHandler {
	return &PriceHandler{
		quoteService: quoteService,
	}
}

// RefreshPrices handles POST requests that fetch current quotes for every
// held asset and the USD/TWD rate. Symbols that fail to fetch keep their
// last known price and are reported in the result.
//
// Endpoint: POST /api/portfolio/{userID}/prices/refresh
// Response: 200 OK with RefreshResult
// Error: 404 Not Found if the user has no stored portfolio
// Error: 500 Internal Server Error if the refresh fails
func (h *PriceHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := h.quoteService.RefreshPrices(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, apperrors.ErrFailedToRefreshPrices.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
