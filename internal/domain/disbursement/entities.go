package disbursement

import (
	"errors"
	"time"

	"lending-desk/internal/domain/document"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan disbursement not found")
	ErrInvalidTransition = errors.New("invalid loan disbursement transition")
)

// Table: loan_disbursements
type LoanDisbursement struct {
	ID                    uint64             `gorm:"primaryKey;column:id" json:"-"`
	Name                  string             `gorm:"column:name;size:64;uniqueIndex:ux_loan_disbursements_name" json:"name"`
	AgainstLoan           string             `gorm:"column:against_loan;size:64;index" json:"against_loan"`
	ApplicantType         string             `gorm:"column:applicant_type;size:32" json:"applicant_type"`
	Applicant             string             `gorm:"column:applicant;size:140" json:"applicant"`
	LoanProduct           string             `gorm:"column:loan_product;size:140" json:"loan_product"`
	Company               string             `gorm:"column:company;size:140" json:"company"`
	RepaymentScheduleType string             `gorm:"column:repayment_schedule_type;size:64" json:"repayment_schedule_type"`
	DisbursedAmount       float64            `gorm:"column:disbursed_amount;type:decimal(18,2)" json:"disbursed_amount"`
	DisbursementDate      time.Time          `gorm:"column:disbursement_date;type:date" json:"disbursement_date"`
	DocStatus             document.DocStatus `gorm:"column:docstatus;default:0" json:"docstatus"`
	Status                document.Status    `gorm:"column:status;size:32;default:'Draft'" json:"status"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt     `gorm:"column:deleted_at;index" json:"-"`
}

func (LoanDisbursement) TableName() string { return "loan_disbursements" }

// ToDoc flattens the row into the generic desk record.
func (l *LoanDisbursement) ToDoc() *document.Doc {
	d := document.New(document.DoctypeLoanDisbursement, l.Name)
	d.DocStatus = l.DocStatus
	d.Set("status", string(l.Status)).
		Set("against_loan", l.AgainstLoan).
		Set("applicant_type", l.ApplicantType).
		Set("applicant", l.Applicant).
		Set("loan_product", l.LoanProduct).
		Set("company", l.Company).
		Set("repayment_schedule_type", l.RepaymentScheduleType).
		Set("disbursed_amount", l.DisbursedAmount)
	if !l.DisbursementDate.IsZero() {
		d.Set("disbursement_date", l.DisbursementDate.Format(time.DateOnly))
	}
	return d
}
