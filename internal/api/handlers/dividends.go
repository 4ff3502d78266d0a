package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/api/middleware"
	"github.com/libao/libao-backend/internal/api/request"
	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/service"
	"github.com/libao/libao-backend/internal/validation"
)

// DividendHandler handles HTTP requests for dividend scanning and
// confirmation.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// ScanDividends handles POST requests that look for dividends paid on held
// positions. Scanning proposes records; nothing is written to the ledger.
//
// Endpoint: POST /api/portfolio/{userID}/dividends/scan
// Request Body: ScanDividendsRequest (optional since date)
// Response: 200 OK with an array of DividendProposal
// Error: 400 Bad Request if the since date is malformed
// Error: 500 Internal Server Error if the scan fails
func (h *DividendHandler) ScanDividends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	var since time.Time
	if r.ContentLength > 0 {
		req, err := parseJSON[request.ScanDividendsRequest](r)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
		if err := validation.ValidateScanDividends(req); err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		if req.Since != "" {
			since, _ = validation.ParseTime(req.Since)
		}
	}

	proposals, err := h.dividendService.ScanDividends(r.Context(), userID, role, since)
	if err != nil {
		respondDomainError(w, err, apperrors.ErrFailedToScanDividends.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, proposals)
}

// ConfirmDividend handles POST requests recording one accepted dividend
// proposal in the ledger.
//
// Endpoint: POST /api/portfolio/{userID}/dividends/confirm
// Request Body: ConfirmDividendRequest
// Response: 201 Created with the transaction and resulting state
// Error: 400 Bad Request if validation fails
// Error: 403 Forbidden for martingale dividends from non-admin roles
// Error: 404 Not Found if the category does not exist
// Error: 500 Internal Server Error if persisting fails
func (h *DividendHandler) ConfirmDividend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	role := middleware.RoleFrom(r.Context())

	req, err := parseJSON[request.ConfirmDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateConfirmDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, err := validation.ParseTime(req.Date)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	proposal := model.DividendProposal{
		Symbol:       req.Symbol,
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Date:         date,
		RatePerShare: req.RatePerShare,
		Shares:       req.Shares,
		GrossAmount:  req.GrossAmount,
		IsMartingale: req.IsMartingale,
	}

	state, tx, err := h.dividendService.ConfirmDividend(userID, role, proposal, req.Tax)
	if err != nil {
		respondDomainError(w, err, "failed to confirm dividend")
		return
	}

	response.RespondJSON(w, http.StatusCreated, orderResponse{Transaction: tx, State: state})
}
