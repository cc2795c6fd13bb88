package repaymentmock

import (
	"context"

	domain "lending-desk/internal/domain/repayment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, r *domain.LoanRepayment) error
	GetByNameFn          func(ctx context.Context, name string) (*domain.LoanRepayment, error)
	ListByDisbursementFn func(ctx context.Context, disbursementName string) ([]domain.LoanRepayment, error)
	SaveFn               func(ctx context.Context, r *domain.LoanRepayment) error
}

func (m *Repo) Create(ctx context.Context, r *domain.LoanRepayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByName(ctx context.Context, name string) (*domain.LoanRepayment, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByDisbursement(ctx context.Context, disbursementName string) ([]domain.LoanRepayment, error) {
	if m.ListByDisbursementFn != nil {
		return m.ListByDisbursementFn(ctx, disbursementName)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, r *domain.LoanRepayment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
