package mysql

import (
	"context"

	disbursementDomain "lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/document"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultListLimit = 20

type DisbursementRepository struct{ db *gorm.DB }

func NewDisbursementRepository(db *gorm.DB) *DisbursementRepository {
	return &DisbursementRepository{db: db}
}

func (r *DisbursementRepository) Create(ctx context.Context, l *disbursementDomain.LoanDisbursement) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *DisbursementRepository) Save(ctx context.Context, l *disbursementDomain.LoanDisbursement) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *DisbursementRepository) GetByName(ctx context.Context, name string) (*disbursementDomain.LoanDisbursement, error) {
	var out disbursementDomain.LoanDisbursement
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *DisbursementRepository) GetByNameForUpdate(ctx context.Context, name string) (*disbursementDomain.LoanDisbursement, error) {
	var out disbursementDomain.LoanDisbursement
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&out)
	return &out, res.Error
}

func (r *DisbursementRepository) List(ctx context.Context, status document.Status, limit int) ([]disbursementDomain.LoanDisbursement, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	q := r.db.WithContext(ctx).Order("updated_at DESC, id DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []disbursementDomain.LoanDisbursement
	return out, q.Find(&out).Error
}
