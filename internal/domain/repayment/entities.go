package repayment

import (
	"errors"
	"time"

	"lending-desk/internal/domain/document"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("loan repayment not found")

// Table: loan_repayments
type LoanRepayment struct {
	ID                    uint64             `gorm:"primaryKey;column:id" json:"-"`
	Name                  string             `gorm:"column:name;size:64;uniqueIndex:ux_loan_repayments_name" json:"name"`
	AgainstLoan           string             `gorm:"column:against_loan;size:64;index" json:"against_loan"`
	ApplicantType         string             `gorm:"column:applicant_type;size:32" json:"applicant_type"`
	Applicant             string             `gorm:"column:applicant;size:140" json:"applicant"`
	LoanProduct           string             `gorm:"column:loan_product;size:140" json:"loan_product"`
	Company               string             `gorm:"column:company;size:140" json:"company"`
	LoanDisbursement      string             `gorm:"column:loan_disbursement;size:64;index" json:"loan_disbursement"`
	RepaymentScheduleType string             `gorm:"column:repayment_schedule_type;size:64" json:"repayment_schedule_type"`
	PostingDate           time.Time          `gorm:"column:posting_date;type:date" json:"posting_date"`
	AmountPaid            float64            `gorm:"column:amount_paid;type:decimal(18,2)" json:"amount_paid"`
	DocStatus             document.DocStatus `gorm:"column:docstatus;default:0" json:"docstatus"`
	Status                document.Status    `gorm:"column:status;size:32;default:'Draft'" json:"status"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt     `gorm:"column:deleted_at;index" json:"-"`
}

func (LoanRepayment) TableName() string { return "loan_repayments" }

func (r *LoanRepayment) ToDoc() *document.Doc {
	d := document.New(document.DoctypeLoanRepayment, r.Name)
	d.DocStatus = r.DocStatus
	d.Set("status", string(r.Status)).
		Set("against_loan", r.AgainstLoan).
		Set("applicant_type", r.ApplicantType).
		Set("applicant", r.Applicant).
		Set("loan_product", r.LoanProduct).
		Set("company", r.Company).
		Set("loan_disbursement", r.LoanDisbursement).
		Set("repayment_schedule_type", r.RepaymentScheduleType).
		Set("amount_paid", r.AmountPaid)
	if !r.PostingDate.IsZero() {
		d.Set("posting_date", r.PostingDate.Format(time.DateOnly))
	}
	return d
}
