package disbursement

import "time"

type CreateInput struct {
	AgainstLoan           string    `json:"against_loan"`
	ApplicantType         string    `json:"applicant_type"`
	Applicant             string    `json:"applicant"`
	LoanProduct           string    `json:"loan_product"`
	Company               string    `json:"company"`
	RepaymentScheduleType string    `json:"repayment_schedule_type"`
	DisbursedAmount       float64   `json:"disbursed_amount"`
	DisbursementDate      time.Time `json:"disbursement_date"`
}

// CancelResult reports what a cascade cancel touched.
type CancelResult struct {
	Name                string   `json:"name"`
	CancelledRepayments []string `json:"cancelled_repayments"`
}
