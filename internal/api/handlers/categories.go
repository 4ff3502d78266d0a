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

// CategoryHandler handles HTTP requests for capital-allocation categories.
type CategoryHandler struct {
	portfolioService *service.PortfolioService
}

// NewCategoryHandler creates a new CategoryHandler with the provided service dependency.
func NewCategoryHandler(portfolioService *service.PortfolioService) *CategoryHandler {
	return &CategoryHandler{
		portfolioService: portfolioService,
	}
}

// AddCategory handles POST requests creating a category.
//
// Endpoint: POST /api/portfolio/{userID}/categories
// Request Body: CategoryRequest
// Response: 201 Created with the resulting state
// Error: 400 Bad Request if validation fails
// Error: 403 Forbidden for martingale categories from non-admin roles
// Error: 500 Internal Server Error if persisting fails
func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	req, err := parseJSON[request.CategoryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCategory(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	category := model.Category{
		Name:              req.Name,
		Market:            model.Market(req.Market),
		AllocationPercent: req.AllocationPercent,
	}

	state, err := h.portfolioService.AddCategory(userID, role, collectionFrom(req.Collection), category)
	if err != nil {
		respondDomainError(w, err, "failed to add category")
		return
	}

	response.RespondJSON(w, http.StatusCreated, state)
}

// UpdateCategory handles PUT requests changing a category's name, market or
// allocation. Renames carry the transaction history along.
//
// Endpoint: PUT /api/portfolio/{userID}/categories/{categoryID}
// Request Body: CategoryRequest
// Response: 200 OK with the resulting state
// Error: 400 Bad Request if validation fails
// Error: 403 Forbidden for martingale categories from non-admin roles
// Error: 404 Not Found if the category does not exist
// Error: 500 Internal Server Error if persisting fails
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	categoryID := chi.URLParam(r, "categoryID")
	role := middleware.RoleFrom(r.Context())

	req, err := parseJSON[request.CategoryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCategory(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	update := model.Category{
		ID:                categoryID,
		Name:              req.Name,
		Market:            model.Market(req.Market),
		AllocationPercent: req.AllocationPercent,
	}

	state, err := h.portfolioService.UpdateCategory(userID, role, collectionFrom(req.Collection), update)
	if err != nil {
		respondDomainError(w, err, "failed to update category")
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}

// DeleteCategory handles DELETE requests removing a category. The deleted
// category's transaction history is retained in the ledger.
//
// Endpoint: DELETE /api/portfolio/{userID}/categories/{categoryID}?collection=martingale
// Response: 200 OK with the resulting state
// Error: 403 Forbidden for martingale categories from non-admin roles
// Error: 404 Not Found if the category does not exist
// Error: 500 Internal Server Error if persisting fails
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	categoryID := chi.URLParam(r, "categoryID")
	role := middleware.RoleFrom(r.Context())
	collection := collectionFrom(r.URL.Query().Get("collection"))

	state, err := h.portfolioService.DeleteCategory(userID, role, collection, categoryID)
	if err != nil {
		respondDomainError(w, err, "failed to delete category")
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}
