package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/libao/libao-backend/internal/api/response"
	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/ledger"
)

// parseJSON decodes a request body into the given type. Unknown fields are
// rejected so typos surface as 400s instead of silently dropped data.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// collectionFrom maps a request collection selector to a ledger collection.
func collectionFrom(collection string) ledger.Collection {
	if collection == "martingale" {
		return ledger.Martingale
	}
	return ledger.Personal
}

// respondDomainError maps domain errors to HTTP status codes. The fallback
// message labels genuinely unexpected failures.
func respondDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrCategoryNotFound),
		errors.Is(err, apperrors.ErrAssetNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrCapitalLogNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, apperrors.ErrForbidden):
		response.RespondError(w, http.StatusForbidden, apperrors.ErrForbidden.Error(), nil)

	case errors.Is(err, apperrors.ErrStateConflict):
		response.RespondError(w, http.StatusConflict, apperrors.ErrStateConflict.Error(), nil)

	case errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrNotLatestTransaction),
		errors.Is(err, apperrors.ErrUnknownTransactionType),
		errors.Is(err, apperrors.ErrInvalidUserID),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidShares),
		errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidCategory):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)

	default:
		response.RespondError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
