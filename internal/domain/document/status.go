package document

import "strings"

// Status is the business status label shown on list badges.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusCancelled Status = "Cancelled"
	StatusClosed    Status = "Closed"

	// loan statuses, referenced as link-field filter values
	StatusSanctioned         Status = "Sanctioned"
	StatusActive             Status = "Active"
	StatusPartiallyDisbursed Status = "Partially Disbursed"
)

// StatusFor derives the status a record should carry for its docstatus.
// A submitted record whose repayment schedule is closed is Closed.
func StatusFor(ds DocStatus, scheduleClosed bool) Status {
	switch ds {
	case DocStatusDraft:
		return StatusDraft
	case DocStatusCancelled:
		return StatusCancelled
	}
	if scheduleClosed {
		return StatusClosed
	}
	return StatusSubmitted
}

// Slug turns "Loan Disbursement" into "loan-disbursement" for URL paths.
func Slug(doctype string) string {
	return strings.ToLower(strings.Join(strings.Fields(doctype), "-"))
}

// FromSlug is the inverse of Slug for title-cased doctypes.
func FromSlug(slug string) string {
	parts := strings.Split(strings.Trim(slug, "-"), "-")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}
