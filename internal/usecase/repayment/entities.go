package repayment

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotSubmitted = errors.New("loan disbursement is not submitted")
	ErrClosed       = errors.New("loan disbursement is closed")
	ErrLoanMismatch = errors.New("loan does not match the disbursement")
	ErrNoSchedule   = errors.New("loan disbursement has no repayment schedule type")
)

// RepaymentNameSeq is the naming series for new Loan Repayment records.
const RepaymentNameSeq = "LR"

// MakeEntryInput mirrors the make_repayment_entry argument payload.
type MakeEntryInput struct {
	Loan             string `json:"loan"              validate:"required"`
	ApplicantType    string `json:"applicant_type"`
	Applicant        string `json:"applicant"`
	LoanProduct      string `json:"loan_product"`
	Company          string `json:"company"`
	LoanDisbursement string `json:"loan_disbursement" validate:"required"`
	AsDict           bool   `json:"as_dict"`
}
