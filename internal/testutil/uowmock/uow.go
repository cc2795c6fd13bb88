package uowmock

import (
	"context"
	"errors"

	"lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinDisbursementTxFn func(ctx context.Context, name string, fn func(r uow.Repos, d *disbursement.LoanDisbursement) error) error
}

// Passthrough builds a UoW that runs fn directly against repos, loading the row
// with GetByNameForUpdate first like the gorm implementation.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinDisbursementTxFn: func(ctx context.Context, name string, fn func(r uow.Repos, d *disbursement.LoanDisbursement) error) error {
			d, err := repos.Disbursements.GetByNameForUpdate(ctx, name)
			if err != nil {
				return err
			}
			return fn(repos, d)
		},
	}
}

func (m *UoW) WithinDisbursementTx(ctx context.Context, name string, fn func(r uow.Repos, d *disbursement.LoanDisbursement) error) error {
	if m.WithinDisbursementTxFn != nil {
		return m.WithinDisbursementTxFn(ctx, name, fn)
	}
	return errUnimplemented
}
