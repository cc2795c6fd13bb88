package mysql

import (
	"context"
	"errors"
	"testing"

	"lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/document"
	"lending-desk/internal/domain/uow"

	"gorm.io/gorm"
)

func TestGormUoW_WithinDisbursementTx_CommitsBothTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if err := NewDisbursementRepository(db).Create(ctx, makeDisbursement("LD-COMMIT", 1, document.StatusSubmitted)); err != nil {
		t.Fatal(err)
	}

	err := NewGormUoW(db).WithinDisbursementTx(ctx, "LD-COMMIT", func(r uow.Repos, d *disbursement.LoanDisbursement) error {
		d.Status = document.StatusClosed
		if err := r.Disbursements.Save(ctx, d); err != nil {
			return err
		}
		return r.Repayments.Create(ctx, makeRepayment("LR-COMMIT", d.Name, document.DocStatusDraft))
	})
	if err != nil {
		t.Fatalf("commit err: %v", err)
	}

	got, err := NewDisbursementRepository(db).GetByName(ctx, "LD-COMMIT")
	if err != nil || got.Status != document.StatusClosed {
		t.Fatalf("disbursement after commit: %+v, %v", got, err)
	}
	if _, err := NewRepaymentRepository(db).GetByName(ctx, "LR-COMMIT"); err != nil {
		t.Fatalf("repayment not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinDisbursementTx_RollsBackBothTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	wantErr := errors.New("boom")
	if err := NewDisbursementRepository(db).Create(ctx, makeDisbursement("LD-RB", 1, document.StatusSubmitted)); err != nil {
		t.Fatal(err)
	}

	err := NewGormUoW(db).WithinDisbursementTx(ctx, "LD-RB", func(r uow.Repos, d *disbursement.LoanDisbursement) error {
		d.DocStatus = document.DocStatusCancelled
		d.Status = document.StatusCancelled
		if err := r.Disbursements.Save(ctx, d); err != nil {
			return err
		}
		if err := r.Repayments.Create(ctx, makeRepayment("LR-RB", d.Name, document.DocStatusDraft)); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("want %v, got %v", wantErr, err)
	}
	if _, err := NewRepaymentRepository(db).GetByName(ctx, "LR-RB"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected repayment rollback, got %v", err)
	}
	got, _ := NewDisbursementRepository(db).GetByName(ctx, "LD-RB")
	if got.DocStatus != document.DocStatusSubmitted {
		t.Fatalf("disbursement change not rolled back: %+v", got)
	}
}

func TestGormUoW_WithinDisbursementTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if err := NewDisbursementRepository(db).Create(ctx, makeDisbursement("LD-LOCK", 1, document.StatusSubmitted)); err != nil {
		t.Fatal(err)
	}

	err := NewGormUoW(db).WithinDisbursementTx(ctx, "LD-LOCK", func(r uow.Repos, d *disbursement.LoanDisbursement) error {
		d.Status = document.StatusClosed
		return r.Disbursements.Save(ctx, d)
	})
	if err != nil {
		t.Fatalf("WithinDisbursementTx: %v", err)
	}
	got, _ := NewDisbursementRepository(db).GetByName(ctx, "LD-LOCK")
	if got.Status != document.StatusClosed {
		t.Fatalf("status = %q", got.Status)
	}

	err = NewGormUoW(db).WithinDisbursementTx(ctx, "LD-MISSING", func(uow.Repos, *disbursement.LoanDisbursement) error {
		t.Fatal("fn must not run for a missing row")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}
