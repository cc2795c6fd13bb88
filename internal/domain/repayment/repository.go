package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *LoanRepayment) error
	GetByName(ctx context.Context, name string) (*LoanRepayment, error)
	// ListByDisbursement returns repayments linked to a disbursement, excluding cancelled ones.
	ListByDisbursement(ctx context.Context, disbursementName string) ([]LoanRepayment, error)
	Save(ctx context.Context, r *LoanRepayment) error
}
