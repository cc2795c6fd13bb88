package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"
	"lending-desk/internal/usecase/deskview"
	ucDisbursement "lending-desk/internal/usecase/disbursement"

	"github.com/labstack/echo/v4"
)

const maxListLimit = 500

// DeskHandler exposes list views, form views and form actions over HTTP.
// Each request gets its own desk session; all of them share one in-flight guard,
// so an action still running on a record blocks the same action from another request.
type DeskHandler struct {
	views         *deskview.Service
	disbursements *ucDisbursement.Usecase
	caller        desk.Caller
	inFlight      *desk.InFlight
}

func NewDeskHandler(views *deskview.Service, disbursements *ucDisbursement.Usecase, caller desk.Caller) *DeskHandler {
	return &DeskHandler{views: views, disbursements: disbursements, caller: caller, inFlight: desk.NewInFlight()}
}

func (h *DeskHandler) session(r desk.Router, n desk.Notifier) *desk.Session {
	return desk.NewSession(h.caller, r, n).WithGuard(h.inFlight)
}

type actionReq struct {
	Label string `json:"label" validate:"required"`
}

// ActionResponse reports where the action navigated and what it told the user.
type ActionResponse struct {
	Route    *desk.Route `json:"route"`
	Messages []string    `json:"messages"`
	Error    string      `json:"error,omitempty"`
}

type createDisbursementReq struct {
	AgainstLoan           string  `json:"against_loan"            validate:"required,docname"`
	ApplicantType         string  `json:"applicant_type"`
	Applicant             string  `json:"applicant"`
	LoanProduct           string  `json:"loan_product"`
	Company               string  `json:"company"`
	RepaymentScheduleType string  `json:"repayment_schedule_type"`
	DisbursedAmount       float64 `json:"disbursed_amount"        validate:"gt=0,dec2"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	DisbursementDate string `json:"disbursement_date"       validate:"required,datetime=2006-01-02"`
}

type cancelReq struct {
	// extra doctypes to leave alone on top of the form's own list
	Ignore []string `json:"ignore"`
}

func doctypeParam(c echo.Context) string { return document.FromSlug(c.Param("doctype")) }

func (h *DeskHandler) fail(c echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Printf("desk %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return c.JSON(code, errorBody(err, code))
}

// List: GET /api/desk/:doctype?filter=status,=,Draft&limit=20
func (h *DeskHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxListLimit {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = n
	}
	rows, err := h.views.List(c.Request().Context(), doctypeParam(c), c.QueryParam("filter"), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Form: GET /api/desk/:doctype/:name
func (h *DeskHandler) Form(c echo.Context) error {
	sess := h.session(&desk.History{}, &desk.Messages{})
	view, err := h.views.View(c.Request().Context(), sess, doctypeParam(c), c.Param("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Action: POST /api/desk/:doctype/:name/actions {"label": "Create Repayment Entry"}
func (h *DeskHandler) Action(c echo.Context) error {
	var req actionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	hist, msgs := &desk.History{}, &desk.Messages{}
	sess := h.session(hist, msgs)
	err := h.views.RunAction(c.Request().Context(), sess, doctypeParam(c), c.Param("name"), req.Label)

	resp := ActionResponse{Messages: msgs.All()}
	if resp.Messages == nil {
		resp.Messages = []string{}
	}
	if r, ok := hist.Current(); ok {
		resp.Route = &r
	}
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			log.Printf("desk action %q on %s: %v", req.Label, c.Param("name"), err)
		}
		resp.Error = errorBody(err, code).Error
		return c.JSON(code, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create: POST /api/desk/loan-disbursement; other doctypes are read-only here.
func (h *DeskHandler) Create(c echo.Context) error {
	if doctypeParam(c) != document.DoctypeLoanDisbursement {
		return h.fail(c, desk.ErrUnknownDoctype)
	}
	var req createDisbursementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	date, _ := time.Parse("2006-01-02", req.DisbursementDate)

	d, err := h.disbursements.Create(c.Request().Context(), ucDisbursement.CreateInput{
		AgainstLoan:           strings.TrimSpace(req.AgainstLoan),
		ApplicantType:         req.ApplicantType,
		Applicant:             req.Applicant,
		LoanProduct:           req.LoanProduct,
		Company:               req.Company,
		RepaymentScheduleType: req.RepaymentScheduleType,
		DisbursedAmount:       req.DisbursedAmount,
		DisbursementDate:      date,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, d.ToDoc())
}

func (h *DeskHandler) Submit(c echo.Context) error {
	if doctypeParam(c) != document.DoctypeLoanDisbursement {
		return h.fail(c, desk.ErrUnknownDoctype)
	}
	doc, err := h.disbursements.Submit(c.Request().Context(), c.Param("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *DeskHandler) Close(c echo.Context) error {
	if doctypeParam(c) != document.DoctypeLoanDisbursement {
		return h.fail(c, desk.ErrUnknownDoctype)
	}
	doc, err := h.disbursements.Close(c.Request().Context(), c.Param("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// Cancel cascades into the linked doctypes the form does not exclude. Doctypes in
// the optional body are excluded on top of the form's own list.
func (h *DeskHandler) Cancel(c echo.Context) error {
	doctype := doctypeParam(c)
	if doctype != document.DoctypeLoanDisbursement {
		return h.fail(c, desk.ErrUnknownDoctype)
	}
	var req cancelReq
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
	}

	ctx := c.Request().Context()
	name := c.Param("name")
	frm, err := h.views.Form(ctx, h.session(&desk.History{}, &desk.Messages{}), doctype, name)
	if err != nil {
		return h.fail(c, err)
	}
	frm.IgnoreDoctypesOnCancelAll = append(frm.IgnoreDoctypesOnCancelAll, req.Ignore...)

	res, err := h.disbursements.Cancel(ctx, name, frm.DoctypesToCancel(ucDisbursement.LinkedDoctypes))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
