package mysql

import (
	"context"

	"lending-desk/internal/domain/document"
	repaymentDomain "lending-desk/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository { return &RepaymentRepository{db: db} }

func (r *RepaymentRepository) Create(ctx context.Context, p *repaymentDomain.LoanRepayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RepaymentRepository) Save(ctx context.Context, p *repaymentDomain.LoanRepayment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *RepaymentRepository) GetByName(ctx context.Context, name string) (*repaymentDomain.LoanRepayment, error) {
	var out repaymentDomain.LoanRepayment
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) ListByDisbursement(ctx context.Context, disbursementName string) ([]repaymentDomain.LoanRepayment, error) {
	var out []repaymentDomain.LoanRepayment
	res := r.db.WithContext(ctx).
		Where("loan_disbursement = ? AND docstatus <> ?", disbursementName, document.DocStatusCancelled).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
