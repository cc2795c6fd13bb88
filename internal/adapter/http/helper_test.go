package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"lending-desk/internal/desk"
	"lending-desk/internal/desk/loandisbursement"
	domainDisbursement "lending-desk/internal/domain/disbursement"
	"lending-desk/internal/domain/document"
	domainRepayment "lending-desk/internal/domain/repayment"
	"lending-desk/internal/domain/uow"
	"lending-desk/internal/testutil/disbursementmock"
	"lending-desk/internal/testutil/repaymentmock"
	"lending-desk/internal/testutil/uowmock"
	"lending-desk/internal/usecase/deskview"
	ucDisbursement "lending-desk/internal/usecase/disbursement"
	ucRepayment "lending-desk/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// store is an in-memory backing for the function mocks.
type store struct {
	mu            sync.Mutex
	disbursements map[string]*domainDisbursement.LoanDisbursement
	repayments    map[string]*domainRepayment.LoanRepayment
	order         []string
}

func newStore(seed ...*domainDisbursement.LoanDisbursement) *store {
	s := &store{
		disbursements: map[string]*domainDisbursement.LoanDisbursement{},
		repayments:    map[string]*domainRepayment.LoanRepayment{},
	}
	for _, d := range seed {
		s.disbursements[d.Name] = d
	}
	return s
}

func (s *store) repos() uow.Repos {
	getD := func(_ context.Context, name string) (*domainDisbursement.LoanDisbursement, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		d, ok := s.disbursements[name]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		return d, nil
	}
	disb := &disbursementmock.Repo{
		CreateFn: func(_ context.Context, d *domainDisbursement.LoanDisbursement) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.disbursements[d.Name] = d
			return nil
		},
		GetByNameFn:          getD,
		GetByNameForUpdateFn: getD,
		ListFn: func(_ context.Context, status document.Status, limit int) ([]domainDisbursement.LoanDisbursement, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			var out []domainDisbursement.LoanDisbursement
			for _, d := range s.disbursements {
				if status == "" || d.Status == status {
					out = append(out, *d)
				}
			}
			return out, nil
		},
	}
	reps := &repaymentmock.Repo{
		CreateFn: func(_ context.Context, p *domainRepayment.LoanRepayment) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.repayments[p.Name] = p
			s.order = append(s.order, p.Name)
			return nil
		},
		GetByNameFn: func(_ context.Context, name string) (*domainRepayment.LoanRepayment, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			p, ok := s.repayments[name]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return p, nil
		},
		ListByDisbursementFn: func(_ context.Context, name string) ([]domainRepayment.LoanRepayment, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			var out []domainRepayment.LoanRepayment
			for _, n := range s.order {
				p := s.repayments[n]
				if p.LoanDisbursement == name && p.DocStatus != document.DocStatusCancelled {
					out = append(out, *p)
				}
			}
			return out, nil
		},
		SaveFn: func(_ context.Context, p *domainRepayment.LoanRepayment) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.repayments[p.Name] = p
			return nil
		},
	}
	return uow.Repos{Disbursements: disb, Repayments: reps}
}

func (s *store) addRepayment(p *domainRepayment.LoanRepayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repayments[p.Name] = p
	s.order = append(s.order, p.Name)
}

func (s *store) repayment(name string) *domainRepayment.LoanRepayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repayments[name]
}

func (s *store) repaymentNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func disbursementRow(name string, ds document.DocStatus, status document.Status, schedule string) *domainDisbursement.LoanDisbursement {
	return &domainDisbursement.LoanDisbursement{
		Name:                  name,
		AgainstLoan:           "LN-0001",
		ApplicantType:         "Customer",
		Applicant:             "CUST-1",
		LoanProduct:           "Term Loan",
		Company:               "Acme",
		RepaymentScheduleType: schedule,
		DisbursedAmount:       1_000_000,
		DocStatus:             ds,
		Status:                status,
	}
}

// newDesk wires handlers the way cmd/api does, minus MySQL and Redis.
func newDesk(t *testing.T, s *store) *echo.Echo {
	t.Helper()
	return newDeskWithCaller(t, s, nil)
}

// callerFunc lets a test wrap the in-process caller.
type callerFunc func(ctx context.Context, method string, args any) (json.RawMessage, error)

func (f callerFunc) Call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	return f(ctx, method, args)
}

func newDeskWithCaller(t *testing.T, s *store, wrap func(desk.Caller) desk.Caller) *echo.Echo {
	t.Helper()
	repos := s.repos()
	tx := uowmock.Passthrough(repos)
	disbUC := ucDisbursement.NewUsecase(repos.Disbursements, tx)
	repUC := ucRepayment.NewUsecase(repos.Repayments, tx)

	reg := desk.NewRegistry()
	if err := loandisbursement.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	local := desk.NewLocalCaller()
	local.Handle(loandisbursement.MethodMakeRepaymentEntry, repUC.Serve)
	var caller desk.Caller = local
	if wrap != nil {
		caller = wrap(local)
	}

	views := deskview.NewService(reg, map[string]deskview.Source{
		document.DoctypeLoanDisbursement: disbUC,
		document.DoctypeLoanRepayment:    repUC,
	})

	e := newEchoWithValidator()
	Routes(e, NewHandler(), NewMethodHandler(repUC), NewDeskHandler(views, disbUC, caller), nil)
	return e
}
