package loandisbursement

import (
	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"
)

var statusColors = map[document.Status]string{
	document.StatusDraft:     "red",
	document.StatusSubmitted: "blue",
	document.StatusCancelled: "red",
	document.StatusClosed:    "green",
}

// ListSettings renders Loan Disbursement list badges.
type ListSettings struct{}

func (ListSettings) GetIndicator(doc *document.Doc) desk.Indicator {
	return desk.StatusIndicator(statusColors, doc.Status())
}
