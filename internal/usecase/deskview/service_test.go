package deskview

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lending-desk/internal/desk"
	"lending-desk/internal/desk/loandisbursement"
	"lending-desk/internal/domain/document"
)

// ----- test doubles -----

type memSource struct {
	docs     map[string]*document.Doc
	gotLimit int
}

func (m *memSource) GetDoc(_ context.Context, name string) (*document.Doc, error) {
	d, ok := m.docs[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (m *memSource) ListDocs(_ context.Context, status document.Status, limit int) ([]*document.Doc, error) {
	m.gotLimit = limit
	var out []*document.Doc
	for _, d := range m.docs {
		if status == "" || d.Status() == status {
			out = append(out, d)
		}
	}
	return out, nil
}

type getOnly struct{}

func (getOnly) GetDoc(_ context.Context, name string) (*document.Doc, error) {
	return document.New(document.DoctypeLoanRepayment, name), nil
}

func disbursementDoc(name string, ds document.DocStatus, status string) *document.Doc {
	d := document.New(document.DoctypeLoanDisbursement, name).
		Set("status", status).
		Set("against_loan", "LN-1").
		Set("repayment_schedule_type", "Daily")
	d.DocStatus = ds
	return d
}

func newService(t *testing.T) (*Service, *memSource) {
	t.Helper()
	reg := desk.NewRegistry()
	if err := loandisbursement.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	src := &memSource{docs: map[string]*document.Doc{
		"LD-1": disbursementDoc("LD-1", 1, "Submitted"),
		"LD-2": disbursementDoc("LD-2", 0, "Draft"),
		"LD-3": disbursementDoc("LD-3", 1, "Closed"),
	}}
	return NewService(reg, map[string]Source{
		document.DoctypeLoanDisbursement: src,
		document.DoctypeLoanRepayment:    getOnly{},
	}), src
}

// ----- tests -----

func TestList_WithIndicators(t *testing.T) {
	svc, src := newService(t)

	rows, err := svc.List(context.Background(), document.DoctypeLoanDisbursement, "status,=,Draft", 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].Doc.Name != "LD-2" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Indicator == nil || rows[0].Indicator.Color != "red" || rows[0].Indicator.Filter != "status,=,Draft" {
		t.Fatalf("indicator = %+v", rows[0].Indicator)
	}
	if src.gotLimit != 5 {
		t.Fatalf("limit = %d", src.gotLimit)
	}

	all, err := svc.List(context.Background(), document.DoctypeLoanDisbursement, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("all rows = %d err=%v", len(all), err)
	}
}

func TestList_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, "Loan", "", 0); !errors.Is(err, desk.ErrUnknownDoctype) {
		t.Fatalf("unknown doctype: %v", err)
	}
	if _, err := svc.List(ctx, document.DoctypeLoanRepayment, "", 0); !errors.Is(err, ErrNotListable) {
		t.Fatalf("not listable: %v", err)
	}
	if _, err := svc.List(ctx, document.DoctypeLoanDisbursement, "company,=,Acme", 0); !errors.Is(err, ErrUnsupportedFilter) {
		t.Fatalf("unsupported filter: %v", err)
	}
	if _, err := svc.List(ctx, document.DoctypeLoanDisbursement, "status", 0); !errors.Is(err, desk.ErrInvalidFilter) {
		t.Fatalf("invalid filter: %v", err)
	}
}

func TestView_RunsHooks(t *testing.T) {
	svc, _ := newService(t)
	sess := desk.NewSession(nil, &desk.History{}, &desk.Messages{})

	v, err := svc.View(context.Background(), sess, document.DoctypeLoanDisbursement, "LD-1")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(v.Buttons) != 1 || v.Buttons[0].Label != loandisbursement.ButtonCreateRepayment {
		t.Fatalf("buttons = %+v", v.Buttons)
	}
	if _, ok := v.Queries["against_loan"]; !ok {
		t.Fatal("against_loan query missing")
	}
	if len(v.IgnoreOnCancel) == 0 {
		t.Fatal("ignore list missing")
	}

	closed, err := svc.View(context.Background(), sess, document.DoctypeLoanDisbursement, "LD-3")
	if err != nil {
		t.Fatalf("View closed: %v", err)
	}
	if len(closed.Buttons) != 0 {
		t.Fatalf("closed disbursement must not offer the button: %+v", closed.Buttons)
	}
}

func TestView_DoctypeWithoutHooks(t *testing.T) {
	svc, _ := newService(t)
	v, err := svc.View(context.Background(), desk.NewSession(nil, nil, nil), document.DoctypeLoanRepayment, "LR-1")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if v.Doc.Name != "LR-1" || len(v.Buttons) != 0 || v.IgnoreOnCancel == nil {
		t.Fatalf("view = %+v", v)
	}
}

func TestRunAction_NavigatesThroughLocalCaller(t *testing.T) {
	svc, _ := newService(t)
	lc := desk.NewLocalCaller()
	lc.Handle(loandisbursement.MethodMakeRepaymentEntry, func(_ context.Context, args json.RawMessage) (any, error) {
		var in loandisbursement.MakeRepaymentEntryRequest
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, err
		}
		if in.LoanDisbursement != "LD-1" || in.Loan != "LN-1" || !in.AsDict {
			return nil, errors.New("unexpected args")
		}
		return document.New(document.DoctypeLoanRepayment, "LR-001"), nil
	})
	hist := &desk.History{}
	sess := desk.NewSession(lc, hist, &desk.Messages{})

	if err := svc.RunAction(context.Background(), sess, document.DoctypeLoanDisbursement, "LD-1", loandisbursement.ButtonCreateRepayment); err != nil {
		t.Fatalf("RunAction: %v", err)
	}
	r, ok := hist.Current()
	if !ok || r.Doctype != document.DoctypeLoanRepayment || r.Name != "LR-001" {
		t.Fatalf("route = %+v ok=%v", r, ok)
	}
}

func TestRunAction_HiddenButton(t *testing.T) {
	svc, _ := newService(t)
	sess := desk.NewSession(desk.NewLocalCaller(), &desk.History{}, &desk.Messages{})
	err := svc.RunAction(context.Background(), sess, document.DoctypeLoanDisbursement, "LD-2", loandisbursement.ButtonCreateRepayment)
	if !errors.Is(err, desk.ErrNoSuchButton) {
		t.Fatalf("want ErrNoSuchButton, got %v", err)
	}
}
