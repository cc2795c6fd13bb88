package loandisbursement

import (
	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"
)

// Register binds the Loan Disbursement list settings and form hooks.
func Register(reg *desk.Registry) error {
	if err := reg.RegisterList(document.DoctypeLoanDisbursement, ListSettings{}); err != nil {
		return err
	}
	c := Controller{}
	reg.On(document.DoctypeLoanDisbursement, desk.FormHandler{
		Setup:   c.Setup,
		Refresh: c.Refresh,
	})
	return nil
}
