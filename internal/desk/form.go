package desk

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"lending-desk/internal/domain/document"
)

type Event string

const (
	EventSetup   Event = "setup"
	EventRefresh Event = "refresh"
)

// ActionFunc runs when a custom button is activated.
type ActionFunc func(ctx context.Context) error

type Button struct {
	Label  string `json:"label"`
	Group  string `json:"group,omitempty"`
	action ActionFunc
}

// Form is the per-view state the form hooks configure.
type Form struct {
	Doc     *document.Doc
	Session *Session

	// IgnoreDoctypesOnCancelAll lists linked doctypes left alone by cascade cancel.
	IgnoreDoctypesOnCancelAll []string

	mu      sync.Mutex
	queries map[string]Query
	buttons []Button
}

func NewForm(doc *document.Doc, s *Session) *Form {
	return &Form{Doc: doc, Session: s, queries: map[string]Query{}}
}

func (f *Form) SetQuery(field string, q Query) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries[field] = q
}

func (f *Form) Query(field string) (Query, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queries[field]
	return q, ok
}

// Queries returns a copy of all link-field queries.
func (f *Form) Queries() map[string]Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]Query, len(f.queries))
	for k, v := range f.queries {
		out[k] = v
	}
	return out
}

// AddCustomButton replaces any button with the same label and group.
func (f *Form) AddCustomButton(label string, fn ActionFunc, group string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buttons = slices.DeleteFunc(f.buttons, func(b Button) bool {
		return b.Label == label && b.Group == group
	})
	f.buttons = append(f.buttons, Button{Label: label, Group: group, action: fn})
}

// ClearCustomButtons drops every button; refresh re-adds the visible ones.
func (f *Form) ClearCustomButtons() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buttons = nil
}

func (f *Form) Buttons() []Button {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Button(nil), f.buttons...)
}

func (f *Form) Button(label string) (Button, bool) {
	for _, b := range f.Buttons() {
		if b.Label == label {
			return b, true
		}
	}
	return Button{}, false
}

// Trigger activates the button with the given label.
func (f *Form) Trigger(ctx context.Context, label string) error {
	b, ok := f.Button(label)
	if !ok || b.action == nil {
		return fmt.Errorf("%w: %q", ErrNoSuchButton, label)
	}
	return b.action(ctx)
}

// DoctypesToCancel filters the linked doctypes a cascade cancel may touch.
func (f *Form) DoctypesToCancel(linked []string) []string {
	out := make([]string, 0, len(linked))
	for _, dt := range linked {
		if !slices.Contains(f.IgnoreDoctypesOnCancelAll, dt) {
			out = append(out, dt)
		}
	}
	return out
}
