package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/api/middleware"
	"github.com/libao/libao-backend/internal/api/request"
	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/service"
	"github.com/libao/libao-backend/internal/validation"
)

// CapitalHandler handles HTTP requests for the capital log.
type CapitalHandler struct {
	portfolioService *service.PortfolioService
}

// NewCapitalHandler creates a new CapitalHandler with the provided service dependency.
func NewCapitalHandler(portfolioService *service.PortfolioService) *CapitalHandler {
	return &CapitalHandler{
		portfolioService: portfolioService,
	}
}

// AddCapitalLog handles POST requests recording a deposit or withdrawal.
// Total capital is recomputed from the full log after the entry is added.
//
// Endpoint: POST /api/portfolio/{userID}/capital
// Request Body: AddCapitalLogRequest
// Response: 201 Created with the resulting state
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if persisting fails
func (h *CapitalHandler) AddCapitalLog(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	req, err := parseJSON[request.AddCapitalLogRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddCapitalLog(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	var date time.Time
	if req.Date != "" {
		date, _ = validation.ParseTime(req.Date)
	}

	entry := model.CapitalLog{
		Type:   req.Type,
		Amount: req.Amount,
		Date:   date,
		Note:   req.Note,
	}

	state, err := h.portfolioService.AddCapitalLog(userID, role, entry)
	if err != nil {
		respondDomainError(w, err, "failed to add capital log entry")
		return
	}

	response.RespondJSON(w, http.StatusCreated, state)
}

// DeleteCapitalLog handles DELETE requests removing one capital log entry.
//
// Endpoint: DELETE /api/portfolio/{userID}/capital/{entryID}
// Response: 200 OK with the resulting state
// Error: 404 Not Found if the entry does not exist
// Error: 500 Internal Server Error if persisting fails
func (h *CapitalHandler) DeleteCapitalLog(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	entryID := chi.URLParam(r, "entryID")
	role := middleware.RoleFrom(r.Context())

	state, err := h.portfolioService.DeleteCapitalLog(userID, role, entryID)
	if err != nil {
		respondDomainError(w, err, "failed to delete capital log entry")
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}
