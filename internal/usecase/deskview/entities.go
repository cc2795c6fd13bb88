package deskview

import (
	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"
)

type Row struct {
	Doc       *document.Doc   `json:"doc"`
	Indicator *desk.Indicator `json:"indicator,omitempty"`
}

type FormView struct {
	Doc            *document.Doc         `json:"doc"`
	Buttons        []desk.Button         `json:"buttons"`
	Queries        map[string]desk.Query `json:"queries"`
	IgnoreOnCancel []string              `json:"ignore_on_cancel"`
}
