package http

import (
	"log"
	"net/http"

	ucRepayment "lending-desk/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

// MethodHandler serves whitelisted remote operations under /api/method.
type MethodHandler struct{ repayments *ucRepayment.Usecase }

func NewMethodHandler(repayments *ucRepayment.Usecase) *MethodHandler {
	return &MethodHandler{repayments: repayments}
}

type makeRepaymentEntryReq struct {
	Loan             string `json:"loan"              validate:"required,docname"`
	ApplicantType    string `json:"applicant_type"`
	Applicant        string `json:"applicant"`
	LoanProduct      string `json:"loan_product"`
	Company          string `json:"company"`
	LoanDisbursement string `json:"loan_disbursement" validate:"required,docname"`
	AsDict           bool   `json:"as_dict"`
}

// MethodResponse wraps every /api/method answer.
type MethodResponse struct {
	Message any `json:"message"`
}

func (h *MethodHandler) MakeRepaymentEntry(c echo.Context) error {
	var req makeRepaymentEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	p, err := h.repayments.MakeRepaymentEntry(c.Request().Context(), ucRepayment.MakeEntryInput(req))
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			log.Printf("make_repayment_entry %s: %v", req.LoanDisbursement, err)
		}
		return c.JSON(code, errorBody(err, code))
	}
	return c.JSON(http.StatusOK, MethodResponse{Message: ucRepayment.Message(p, req.AsDict)})
}
