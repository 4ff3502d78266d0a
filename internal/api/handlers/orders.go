package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/api/middleware"
	"github.com/libao/libao-backend/internal/api/request"
	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/ledger"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/service"
	"github.com/libao/libao-backend/internal/validation"
)

// OrderHandler handles HTTP requests for trade execution and reversal.
type OrderHandler struct {
	portfolioService *service.PortfolioService
}

// NewOrderHandler creates a new OrderHandler with the provided service dependency.
func NewOrderHandler(portfolioService *service.PortfolioService) *OrderHandler {
	return &OrderHandler{
		portfolioService: portfolioService,
	}
}

// orderResponse pairs the written transaction record with the state it
// produced.
type orderResponse struct {
	Transaction model.Transaction    `json:"transaction"`
	State       model.PortfolioState `json:"state"`
}

// ExecuteOrder handles POST requests placing a buy or sell order.
//
// Endpoint: POST /api/portfolio/{userID}/orders
// Request Body: ExecuteOrderRequest
// Response: 201 Created with the transaction and resulting state
// Error: 400 Bad Request if validation fails or shares are insufficient
// Error: 403 Forbidden for martingale orders from non-admin roles
// Error: 404 Not Found if the category does not exist
// Error: 500 Internal Server Error if execution fails
func (h *OrderHandler) ExecuteOrder(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	req, err := parseJSON[request.ExecuteOrderRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateExecuteOrder(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, err := validation.ParseTime(req.Date)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	order := ledger.Order{
		Symbol:       req.Symbol,
		Name:         req.Name,
		Action:       req.Action,
		Price:        req.Price,
		Shares:       req.Shares,
		ExchangeRate: req.ExchangeRate,
		Fee:          req.Fee,
		Tax:          req.Tax,
		TotalAmount:  req.TotalAmount,
		Date:         date,
		AssetID:      req.AssetID,
	}

	state, tx, err := h.portfolioService.ExecuteOrder(userID, role, collectionFrom(req.Collection), req.CategoryID, order)
	if err != nil {
		respondDomainError(w, err, "failed to execute order")
		return
	}

	response.RespondJSON(w, http.StatusCreated, orderResponse{Transaction: tx, State: state})
}

// RevokeTransaction handles DELETE requests that exactly reverse one
// transaction and delete its record.
//
// Endpoint: DELETE /api/portfolio/{userID}/transactions/{transactionID}
// Response: 200 OK with the resulting state
// Error: 400 Bad Request if the transaction is not the latest for its symbol
// Error: 403 Forbidden for martingale records from non-admin roles
// Error: 404 Not Found if the transaction does not exist
// Error: 500 Internal Server Error if the reversal fails
func (h *OrderHandler) RevokeTransaction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	transactionID := chi.URLParam(r, "transactionID")
	role := middleware.RoleFrom(r.Context())

	state, err := h.portfolioService.RevokeTransaction(userID, role, transactionID)
	if err != nil {
		respondDomainError(w, err, "failed to revoke transaction")
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}
