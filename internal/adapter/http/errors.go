package http

import (
	"errors"
	"net/http"

	"lending-desk/internal/desk"
	domainDisbursement "lending-desk/internal/domain/disbursement"
	domainRepayment "lending-desk/internal/domain/repayment"
	"lending-desk/internal/usecase/deskview"
	ucDisbursement "lending-desk/internal/usecase/disbursement"
	ucRepayment "lending-desk/internal/usecase/repayment"
)

// statusOf maps domain errors → HTTP codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, desk.ErrUnknownDoctype),
		errors.Is(err, desk.ErrNoSuchButton),
		errors.Is(err, deskview.ErrNotListable),
		errors.Is(err, domainDisbursement.ErrNotFound),
		errors.Is(err, domainRepayment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, desk.ErrInvalidFilter),
		errors.Is(err, deskview.ErrUnsupportedFilter):
		return http.StatusBadRequest
	case errors.Is(err, ucRepayment.ErrInvalidInput),
		errors.Is(err, ucDisbursement.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, desk.ErrActionInProgress),
		errors.Is(err, domainDisbursement.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ucRepayment.ErrNotSubmitted),
		errors.Is(err, ucRepayment.ErrClosed),
		errors.Is(err, ucRepayment.ErrLoanMismatch),
		errors.Is(err, ucRepayment.ErrNoSchedule):
		return http.StatusExpectationFailed
	}
	return http.StatusInternalServerError
}

func errorBody(err error, code int) ErrorResponse {
	if code == http.StatusInternalServerError {
		return ErrorResponse{Error: "internal error"}
	}
	return ErrorResponse{Error: err.Error()}
}
