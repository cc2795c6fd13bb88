package deskview

import (
	"context"
	"errors"
	"fmt"

	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"
)

var (
	ErrNotListable       = errors.New("doctype has no list view")
	ErrUnsupportedFilter = errors.New("only status,=,<value> filters are supported")
)

// Source loads records of one doctype.
type Source interface {
	GetDoc(ctx context.Context, name string) (*document.Doc, error)
}

// Lister is implemented by sources that back a list view.
type Lister interface {
	ListDocs(ctx context.Context, status document.Status, limit int) ([]*document.Doc, error)
}

type Service struct {
	reg     *desk.Registry
	sources map[string]Source
}

func NewService(reg *desk.Registry, sources map[string]Source) *Service {
	return &Service{reg: reg, sources: sources}
}

func (s *Service) source(doctype string) (Source, error) {
	src, ok := s.sources[doctype]
	if !ok {
		return nil, fmt.Errorf("%w: %q", desk.ErrUnknownDoctype, doctype)
	}
	return src, nil
}

// List returns rows with their list badges; clause is an optional "status,=,<value>".
func (s *Service) List(ctx context.Context, doctype, clause string, limit int) ([]Row, error) {
	src, err := s.source(doctype)
	if err != nil {
		return nil, err
	}
	lister, ok := src.(Lister)
	if !ok {
		return nil, ErrNotListable
	}

	var status document.Status
	if clause != "" {
		f, err := desk.ParseFilter(clause)
		if err != nil {
			return nil, err
		}
		v, isStr := f.Value.(string)
		if f.Field != "status" || f.Op != desk.OpEq || !isStr {
			return nil, ErrUnsupportedFilter
		}
		status = document.Status(v)
	}

	docs, err := lister.ListDocs(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(docs))
	for _, d := range docs {
		row := Row{Doc: d}
		if ind, ok := s.reg.Indicator(d); ok {
			row.Indicator = &ind
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Form loads a record and runs its setup and refresh hooks.
func (s *Service) Form(ctx context.Context, sess *desk.Session, doctype, name string) (*desk.Form, error) {
	src, err := s.source(doctype)
	if err != nil {
		return nil, err
	}
	doc, err := src.GetDoc(ctx, name)
	if err != nil {
		return nil, err
	}
	frm := desk.NewForm(doc, sess)
	if err := s.reg.Load(ctx, frm); err != nil && !errors.Is(err, desk.ErrUnknownDoctype) {
		return nil, err
	}
	return frm, nil
}

func (s *Service) View(ctx context.Context, sess *desk.Session, doctype, name string) (*FormView, error) {
	frm, err := s.Form(ctx, sess, doctype, name)
	if err != nil {
		return nil, err
	}
	return &FormView{
		Doc:            frm.Doc,
		Buttons:        frm.Buttons(),
		Queries:        frm.Queries(),
		IgnoreOnCancel: append([]string{}, frm.IgnoreDoctypesOnCancelAll...),
	}, nil
}

// RunAction opens the form and activates the button with the given label.
// Navigation and notices land on the session's router and notifier.
func (s *Service) RunAction(ctx context.Context, sess *desk.Session, doctype, name, label string) error {
	frm, err := s.Form(ctx, sess, doctype, name)
	if err != nil {
		return err
	}
	return frm.Trigger(ctx, label)
}
