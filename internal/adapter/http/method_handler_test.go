package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"

	"lending-desk/internal/domain/document"
)

const methodPath = "/api/method/make_repayment_entry"

func entryArgs(disbursement string, asDict bool) map[string]any {
	return map[string]any{
		"loan":              "LN-0001",
		"applicant_type":    "Customer",
		"applicant":         "CUST-1",
		"loan_product":      "Term Loan",
		"company":           "Acme",
		"loan_disbursement": disbursement,
		"as_dict":           asDict,
	}
}

func TestMakeRepaymentEntry_ReturnsRecord(t *testing.T) {
	s := newStore(disbursementRow("LD-0001", document.DocStatusSubmitted, document.StatusSubmitted, "Monthly"))
	e := newDesk(t, s)

	rec := doJSON(t, e, stdhttp.MethodPost, methodPath, mustJSON(entryArgs("LD-0001", true)))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message document.Doc `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Message.Doctype != document.DoctypeLoanRepayment || !strings.HasPrefix(resp.Message.Name, "LR-") {
		t.Fatalf("unexpected message: %+v", resp.Message)
	}
	if resp.Message.DocStatus != document.DocStatusDraft {
		t.Fatalf("docstatus = %d, want draft", resp.Message.DocStatus)
	}
	if got := resp.Message.String("loan_disbursement"); got != "LD-0001" {
		t.Fatalf("loan_disbursement = %q", got)
	}
	if names := s.repaymentNames(); len(names) != 1 || names[0] != resp.Message.Name {
		t.Fatalf("stored repayments = %v", names)
	}
}

func TestMakeRepaymentEntry_AsNameOnly(t *testing.T) {
	s := newStore(disbursementRow("LD-0001", document.DocStatusSubmitted, document.StatusSubmitted, "Monthly"))
	e := newDesk(t, s)

	rec := doJSON(t, e, stdhttp.MethodPost, methodPath, mustJSON(entryArgs("LD-0001", false)))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !strings.HasPrefix(resp.Message, "LR-") {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestMakeRepaymentEntry_ValidationError(t *testing.T) {
	e := newDesk(t, newStore())

	body := entryArgs("", true)
	body["loan"] = "-bad"
	rec := doJSON(t, e, stdhttp.MethodPost, methodPath, mustJSON(body))
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "LoanDisbursement", "is required") {
		t.Fatalf("missing required detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Loan", "record name") {
		t.Fatalf("missing docname detail: %+v", er.Details)
	}
}

func TestMakeRepaymentEntry_BadJSON(t *testing.T) {
	e := newDesk(t, newStore())
	rec := doJSON(t, e, stdhttp.MethodPost, methodPath, strings.NewReader(`{"loan":`))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMakeRepaymentEntry_DomainErrors(t *testing.T) {
	s := newStore(
		disbursementRow("LD-DRAFT", document.DocStatusDraft, document.StatusDraft, "Monthly"),
		disbursementRow("LD-CLOSED", document.DocStatusSubmitted, document.StatusClosed, "Monthly"),
		disbursementRow("LD-NOSCHED", document.DocStatusSubmitted, document.StatusSubmitted, ""),
		disbursementRow("LD-OK", document.DocStatusSubmitted, document.StatusSubmitted, "Monthly"),
	)
	e := newDesk(t, s)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing disbursement", entryArgs("LD-NOPE", true), stdhttp.StatusNotFound},
		{"draft", entryArgs("LD-DRAFT", true), stdhttp.StatusExpectationFailed},
		{"closed", entryArgs("LD-CLOSED", true), stdhttp.StatusExpectationFailed},
		{"no schedule", entryArgs("LD-NOSCHED", true), stdhttp.StatusExpectationFailed},
		{"loan mismatch", func() map[string]any {
			b := entryArgs("LD-OK", true)
			b["loan"] = "LN-9999"
			return b
		}(), stdhttp.StatusExpectationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, stdhttp.MethodPost, methodPath, mustJSON(tt.body))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
	if n := len(s.repaymentNames()); n != 0 {
		t.Fatalf("no repayment should be created, got %d", n)
	}
}
