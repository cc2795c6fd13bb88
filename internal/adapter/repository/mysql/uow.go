package mysql

import (
	"context"

	"lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Disbursements: &DisbursementRepository{db: tx},
		Repayments:    &RepaymentRepository{db: tx},
	}
}

func (u *GormUoW) WithinDisbursementTx(ctx context.Context, name string, fn func(r uow.Repos, d *disbursement.LoanDisbursement) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the disbursement row up-front to prevent races
		d, err := r.Disbursements.GetByNameForUpdate(ctx, name)
		if err != nil {
			return err
		}
		return fn(r, d)
	})
}
