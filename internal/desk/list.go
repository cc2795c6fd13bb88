package desk

import "lending-desk/internal/domain/document"

// Indicator is the list-view badge for a record.
type Indicator struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Filter string `json:"filter"`
}

// ListSettings resolves list-view presentation for one doctype.
type ListSettings interface {
	GetIndicator(doc *document.Doc) Indicator
}

// IndicatorFunc adapts a plain function to ListSettings.
type IndicatorFunc func(doc *document.Doc) Indicator

func (f IndicatorFunc) GetIndicator(doc *document.Doc) Indicator { return f(doc) }

// StatusIndicator builds an Indicator from a fixed status→color table.
// Unmapped statuses keep their label and filter but get no color.
func StatusIndicator(colors map[document.Status]string, status document.Status) Indicator {
	return Indicator{
		Label:  string(status),
		Color:  colors[status],
		Filter: FormatFilter("status", OpEq, string(status)),
	}
}
