package disbursementmock

import (
	"context"

	domain "lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, l *domain.LoanDisbursement) error
	GetByNameFn          func(ctx context.Context, name string) (*domain.LoanDisbursement, error)
	GetByNameForUpdateFn func(ctx context.Context, name string) (*domain.LoanDisbursement, error)
	ListFn               func(ctx context.Context, status document.Status, limit int) ([]domain.LoanDisbursement, error)
	SaveFn               func(ctx context.Context, l *domain.LoanDisbursement) error
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanDisbursement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByName(ctx context.Context, name string) (*domain.LoanDisbursement, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNameForUpdate(ctx context.Context, name string) (*domain.LoanDisbursement, error) {
	if m.GetByNameForUpdateFn != nil {
		return m.GetByNameForUpdateFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, status document.Status, limit int) ([]domain.LoanDisbursement, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status, limit)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.LoanDisbursement) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
