package uow

import (
	"context"

	"lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/repayment"
)

type Repos struct {
	Disbursements disbursement.Repository
	Repayments    repayment.Repository
}

type UnitOfWork interface {
	// lock the disbursement first, then pass it in; fn runs in the same tx
	WithinDisbursementTx(ctx context.Context, name string, fn func(r Repos, d *disbursement.LoanDisbursement) error) error
}
