package disbursement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	domain "lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/document"
	"lending-desk/internal/domain/uow"
	"lending-desk/pkg/id"

	"gorm.io/gorm"
)

// DisbursementNameSeq is the naming series for new Loan Disbursement records.
const DisbursementNameSeq = "LD"

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.LoanDisbursement, error) {
	if strings.TrimSpace(in.AgainstLoan) == "" || in.DisbursedAmount <= 0 {
		return nil, ErrInvalidInput
	}
	d := &domain.LoanDisbursement{
		Name:                  id.NewName(DisbursementNameSeq),
		AgainstLoan:           in.AgainstLoan,
		ApplicantType:         in.ApplicantType,
		Applicant:             in.Applicant,
		LoanProduct:           in.LoanProduct,
		Company:               in.Company,
		RepaymentScheduleType: in.RepaymentScheduleType,
		DisbursedAmount:       in.DisbursedAmount,
		DisbursementDate:      in.DisbursementDate.UTC(),
		DocStatus:             document.DocStatusDraft,
		Status:                document.StatusFor(document.DocStatusDraft, false),
	}
	if err := u.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (u *Usecase) GetDoc(ctx context.Context, name string) (*document.Doc, error) {
	d, err := u.repo.GetByName(ctx, name)
	if err != nil {
		return nil, notFound(err)
	}
	return d.ToDoc(), nil
}

func (u *Usecase) ListDocs(ctx context.Context, status document.Status, limit int) ([]*document.Doc, error) {
	rows, err := u.repo.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*document.Doc, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDoc())
	}
	return out, nil
}

// Submit moves a draft to submitted.
func (u *Usecase) Submit(ctx context.Context, name string) (*document.Doc, error) {
	return u.transition(ctx, name, func(_ uow.Repos, d *domain.LoanDisbursement) error {
		if d.DocStatus != document.DocStatusDraft {
			return domain.ErrInvalidTransition
		}
		d.DocStatus = document.DocStatusSubmitted
		d.Status = document.StatusFor(d.DocStatus, false)
		return nil
	})
}

// Close marks a submitted disbursement whose repayment schedule has closed.
func (u *Usecase) Close(ctx context.Context, name string) (*document.Doc, error) {
	return u.transition(ctx, name, func(_ uow.Repos, d *domain.LoanDisbursement) error {
		if d.DocStatus != document.DocStatusSubmitted || d.Status == document.StatusClosed {
			return domain.ErrInvalidTransition
		}
		d.Status = document.StatusFor(d.DocStatus, true)
		return nil
	})
}

// LinkedDoctypes are the doctypes whose records point at a disbursement and can
// be cancelled along with it.
var LinkedDoctypes = []string{document.DoctypeLoanRepayment}

// Cancel cancels a submitted disbursement. When cascade names Loan Repayment, every
// submitted repayment linked to it is cancelled too; drafts are left as they are.
// cascade is normally desk.Form.DoctypesToCancel(LinkedDoctypes).
func (u *Usecase) Cancel(ctx context.Context, name string, cascade []string) (*CancelResult, error) {
	res := &CancelResult{Name: name, CancelledRepayments: []string{}}
	_, err := u.transition(ctx, name, func(r uow.Repos, d *domain.LoanDisbursement) error {
		if d.DocStatus != document.DocStatusSubmitted {
			return domain.ErrInvalidTransition
		}
		d.DocStatus = document.DocStatusCancelled
		d.Status = document.StatusFor(d.DocStatus, false)

		if !slices.Contains(cascade, document.DoctypeLoanRepayment) {
			return nil
		}
		linked, err := r.Repayments.ListByDisbursement(ctx, d.Name)
		if err != nil {
			return err
		}
		for i := range linked {
			p := &linked[i]
			if p.DocStatus != document.DocStatusSubmitted {
				continue
			}
			p.DocStatus = document.DocStatusCancelled
			p.Status = document.StatusFor(p.DocStatus, false)
			if err := r.Repayments.Save(ctx, p); err != nil {
				return fmt.Errorf("cancel repayment %s: %w", p.Name, err)
			}
			res.CancelledRepayments = append(res.CancelledRepayments, p.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("disbursement: cancelled %s (%d linked repayments)", name, len(res.CancelledRepayments))
	return res, nil
}

func (u *Usecase) transition(ctx context.Context, name string, fn func(r uow.Repos, d *domain.LoanDisbursement) error) (*document.Doc, error) {
	var out *document.Doc
	err := u.uow.WithinDisbursementTx(ctx, name, func(r uow.Repos, d *domain.LoanDisbursement) error {
		if err := fn(r, d); err != nil {
			return err
		}
		if err := r.Disbursements.Save(ctx, d); err != nil {
			return err
		}
		out = d.ToDoc()
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
