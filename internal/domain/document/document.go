package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DocStatus is the lifecycle stage of a document, independent of its business status.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

func (s DocStatus) Valid() bool { return s >= DocStatusDraft && s <= DocStatusCancelled }

const (
	DoctypeLoan                  = "Loan"
	DoctypeLoanDisbursement      = "Loan Disbursement"
	DoctypeLoanRepayment         = "Loan Repayment"
	DoctypeLoanRepaymentSchedule = "Loan Repayment Schedule"
)

var (
	ErrMissingDoctype = errors.New("document: missing doctype")
	ErrMissingName    = errors.New("document: missing name")
)

// reserved keys live on the struct, not in Fields.
var reserved = map[string]struct{}{"doctype": {}, "name": {}, "docstatus": {}}

// Doc is a generic business record as the desk sees it.
type Doc struct {
	Doctype   string
	Name      string
	DocStatus DocStatus
	Fields    map[string]any
}

func New(doctype, name string) *Doc {
	return &Doc{Doctype: doctype, Name: name, Fields: map[string]any{}}
}

// Set stores a business field. Reserved keys are routed to their struct fields.
func (d *Doc) Set(field string, v any) *Doc {
	switch field {
	case "doctype":
		d.Doctype, _ = v.(string)
	case "name":
		d.Name, _ = v.(string)
	case "docstatus":
		if n, ok := toInt(v); ok {
			d.DocStatus = DocStatus(n)
		}
	default:
		if d.Fields == nil {
			d.Fields = map[string]any{}
		}
		d.Fields[field] = v
	}
	return d
}

func (d *Doc) Get(field string) any {
	switch field {
	case "doctype":
		return d.Doctype
	case "name":
		return d.Name
	case "docstatus":
		return int(d.DocStatus)
	}
	if d.Fields == nil {
		return nil
	}
	return d.Fields[field]
}

// String returns the field as text; nil and missing fields are "".
func (d *Doc) String(field string) string {
	v := d.Get(field)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Truthy treats nil, "", false and numeric zero as unset.
func (d *Doc) Truthy(field string) bool {
	switch v := d.Get(field).(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func (d *Doc) Status() Status { return Status(d.String("status")) }

func (d *Doc) Validate() error {
	if strings.TrimSpace(d.Doctype) == "" {
		return ErrMissingDoctype
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	return nil
}

func (d Doc) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+3)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["doctype"] = d.Doctype
	out["name"] = d.Name
	out["docstatus"] = int(d.DocStatus)
	return json.Marshal(out)
}

func (d *Doc) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("document: payload is not an object")
	}
	*d = Doc{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if _, ok := reserved[k]; ok {
			d.Set(k, v)
			continue
		}
		d.Fields[k] = v
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
