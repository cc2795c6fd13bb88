package disbursement

import (
	"context"

	"lending-desk/internal/domain/document"
)

type Repository interface {
	Create(ctx context.Context, l *LoanDisbursement) error
	GetByName(ctx context.Context, name string) (*LoanDisbursement, error)
	// GetByNameForUpdate locks the row for the surrounding transaction.
	GetByNameForUpdate(ctx context.Context, name string) (*LoanDisbursement, error)
	// List returns rows, optionally narrowed to one status ("" means all).
	List(ctx context.Context, status document.Status, limit int) ([]LoanDisbursement, error)
	Save(ctx context.Context, l *LoanDisbursement) error
}
