package loandisbursement

import (
	"context"
	"errors"
	"fmt"

	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"
)

const (
	MethodMakeRepaymentEntry = "make_repayment_entry"

	ButtonCreateRepayment = "Create Repayment Entry"
	ButtonGroupCreate     = "Create"

	noticeNoRepayment = "Could not create a Loan Repayment for this disbursement."
	noticeInProgress  = "A Loan Repayment is already being created for this disbursement."
)

// cancelIgnored are linked doctypes a disbursement cancel must not cascade into.
var cancelIgnored = []string{
	document.DoctypeLoanRepaymentSchedule,
	"Loan Interest Accrual",
	"Loan Demand",
	"Sales Invoice",
	"GL Entry",
	"Payment Ledger Entry",
}

// LinkableLoanStatuses are the loan statuses against_loan may point at.
var LinkableLoanStatuses = []string{
	string(document.StatusSanctioned),
	string(document.StatusActive),
	string(document.StatusPartiallyDisbursed),
}

// MakeRepaymentEntryRequest is the argument payload of make_repayment_entry.
type MakeRepaymentEntryRequest struct {
	Loan             string `json:"loan"`
	ApplicantType    string `json:"applicant_type"`
	Applicant        string `json:"applicant"`
	LoanProduct      string `json:"loan_product"`
	Company          string `json:"company"`
	LoanDisbursement string `json:"loan_disbursement"`
	AsDict           bool   `json:"as_dict"`
}

// Controller wires the Loan Disbursement form hooks.
type Controller struct{}

func (Controller) Setup(_ context.Context, frm *desk.Form) {
	frm.IgnoreDoctypesOnCancelAll = append([]string(nil), cancelIgnored...)
}

func (c Controller) Refresh(_ context.Context, frm *desk.Form) {
	frm.SetQuery("against_loan", AgainstLoanQuery())

	if CanCreateRepayment(frm.Doc) {
		frm.AddCustomButton(ButtonCreateRepayment, func(ctx context.Context) error {
			return c.MakeRepaymentEntry(ctx, frm)
		}, ButtonGroupCreate)
	}
}

// AgainstLoanQuery does not depend on the record being viewed.
func AgainstLoanQuery() desk.Query {
	return desk.Query{}.
		Where("docstatus", desk.OpEq, int(document.DocStatusSubmitted)).
		Where("status", desk.OpIn, append([]string(nil), LinkableLoanStatuses...))
}

// CanCreateRepayment: submitted, has a repayment schedule type, not closed.
func CanCreateRepayment(doc *document.Doc) bool {
	return doc.DocStatus == document.DocStatusSubmitted &&
		doc.Truthy("repayment_schedule_type") &&
		doc.Status() != document.StatusClosed
}

func NewMakeRepaymentEntryRequest(doc *document.Doc) MakeRepaymentEntryRequest {
	return MakeRepaymentEntryRequest{
		Loan:             doc.String("against_loan"),
		ApplicantType:    doc.String("applicant_type"),
		Applicant:        doc.String("applicant"),
		LoanProduct:      doc.String("loan_product"),
		Company:          doc.String("company"),
		LoanDisbursement: doc.Name,
		AsDict:           true,
	}
}

// MakeRepaymentEntry asks the server for a repayment draft and opens it.
// An empty answer is reported to the user and is not an error.
func (Controller) MakeRepaymentEntry(ctx context.Context, frm *desk.Form) error {
	s := frm.Session
	release, ok := s.Begin(MethodMakeRepaymentEntry + ":" + frm.Doc.Name)
	if !ok {
		s.Notify(noticeInProgress)
		return desk.ErrActionInProgress
	}
	defer release()

	msg, err := s.Caller.Call(ctx, MethodMakeRepaymentEntry, NewMakeRepaymentEntryRequest(frm.Doc))
	if err != nil {
		s.Notify(noticeNoRepayment)
		return fmt.Errorf("%s for %s: %w", MethodMakeRepaymentEntry, frm.Doc.Name, err)
	}

	doc, err := s.Model.Sync(msg)
	if errors.Is(err, desk.ErrNoMessage) {
		s.Notify(noticeNoRepayment)
		return nil
	}
	if err != nil {
		s.Notify(noticeNoRepayment)
		return err
	}

	s.Router.SetRoute(desk.Route{View: "Form", Doctype: doc.Doctype, Name: doc.Name})
	return nil
}
