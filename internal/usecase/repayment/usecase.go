package repayment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domainDisbursement "lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/document"
	domainRepayment "lending-desk/internal/domain/repayment"
	"lending-desk/internal/domain/uow"
	"lending-desk/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domainRepayment.Repository
	uow  uow.UnitOfWork
	now  func() time.Time
}

func NewUsecase(r domainRepayment.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) GetDoc(ctx context.Context, name string) (*document.Doc, error) {
	p, err := u.repo.GetByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainRepayment.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.ToDoc(), nil
}

// MakeRepaymentEntry creates a draft Loan Repayment against a submitted, open disbursement.
func (u *Usecase) MakeRepaymentEntry(ctx context.Context, in MakeEntryInput) (*domainRepayment.LoanRepayment, error) {
	in.Loan = strings.TrimSpace(in.Loan)
	in.LoanDisbursement = strings.TrimSpace(in.LoanDisbursement)
	if in.Loan == "" || in.LoanDisbursement == "" {
		return nil, ErrInvalidInput
	}

	var out *domainRepayment.LoanRepayment
	err := u.uow.WithinDisbursementTx(ctx, in.LoanDisbursement, func(r uow.Repos, d *domainDisbursement.LoanDisbursement) error {
		switch {
		case d.DocStatus != document.DocStatusSubmitted:
			return ErrNotSubmitted
		case d.Status == document.StatusClosed:
			return ErrClosed
		case d.AgainstLoan != in.Loan:
			return ErrLoanMismatch
		case d.RepaymentScheduleType == "":
			return ErrNoSchedule
		}

		p := &domainRepayment.LoanRepayment{
			Name:                  id.NewName(RepaymentNameSeq),
			AgainstLoan:           d.AgainstLoan,
			ApplicantType:         orDefault(in.ApplicantType, d.ApplicantType),
			Applicant:             orDefault(in.Applicant, d.Applicant),
			LoanProduct:           orDefault(in.LoanProduct, d.LoanProduct),
			Company:               orDefault(in.Company, d.Company),
			LoanDisbursement:      d.Name,
			RepaymentScheduleType: d.RepaymentScheduleType,
			PostingDate:           u.now().Truncate(24 * time.Hour),
			DocStatus:             document.DocStatusDraft,
			Status:                document.StatusDraft,
		}
		if err := r.Repayments.Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDisbursement.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	log.Printf("repayment: created %s for disbursement %s", out.Name, out.LoanDisbursement)
	return out, nil
}

// Message shapes the result the way make_repayment_entry answers: the full record
// when asDict is set, the bare name otherwise.
func Message(p *domainRepayment.LoanRepayment, asDict bool) any {
	if asDict {
		return p.ToDoc()
	}
	return p.Name
}

// Serve decodes raw make_repayment_entry arguments and answers in process.
func (u *Usecase) Serve(ctx context.Context, args json.RawMessage) (any, error) {
	var in MakeEntryInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p, err := u.MakeRepaymentEntry(ctx, in)
	if err != nil {
		return nil, err
	}
	return Message(p, in.AsDict), nil
}

func orDefault(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
