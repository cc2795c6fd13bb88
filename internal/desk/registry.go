package desk

import (
	"context"
	"errors"
	"sort"
	"sync"

	"lending-desk/internal/domain/document"
)

var (
	ErrNoSuchButton     = errors.New("desk: no such button")
	ErrActionInProgress = errors.New("desk: action already in progress")
	ErrUnknownDoctype   = errors.New("desk: doctype not registered")
	ErrNoMessage        = errors.New("desk: remote call returned no message")
	ErrListRegistered   = errors.New("desk: list settings already registered")
)

// FormHandler holds the lifecycle hooks for one doctype. Nil hooks are skipped.
type FormHandler struct {
	Setup   func(ctx context.Context, frm *Form)
	Refresh func(ctx context.Context, frm *Form)
}

// Registry maps doctype names to list settings and form handlers.
type Registry struct {
	mu    sync.RWMutex
	lists map[string]ListSettings
	forms map[string][]FormHandler
}

func NewRegistry() *Registry {
	return &Registry{lists: map[string]ListSettings{}, forms: map[string][]FormHandler{}}
}

func (r *Registry) RegisterList(doctype string, s ListSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lists[doctype]; ok {
		return ErrListRegistered
	}
	r.lists[doctype] = s
	return nil
}

// On appends a form handler; handlers run in registration order.
func (r *Registry) On(doctype string, h FormHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[doctype] = append(r.forms[doctype], h)
}

// Indicator resolves a list badge. ok is false when no settings exist for the doctype.
func (r *Registry) Indicator(doc *document.Doc) (Indicator, bool) {
	r.mu.RLock()
	s, ok := r.lists[doc.Doctype]
	r.mu.RUnlock()
	if !ok {
		return Indicator{}, false
	}
	return s.GetIndicator(doc), true
}

// Trigger runs every handler for the form's doctype for one event.
func (r *Registry) Trigger(ctx context.Context, ev Event, frm *Form) error {
	r.mu.RLock()
	hs, ok := r.forms[frm.Doc.Doctype]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownDoctype
	}
	if ev == EventRefresh {
		frm.ClearCustomButtons()
	}
	for _, h := range hs {
		switch ev {
		case EventSetup:
			if h.Setup != nil {
				h.Setup(ctx, frm)
			}
		case EventRefresh:
			if h.Refresh != nil {
				h.Refresh(ctx, frm)
			}
		}
	}
	return nil
}

// Load runs setup then refresh, the order a form view opens in.
func (r *Registry) Load(ctx context.Context, frm *Form) error {
	if err := r.Trigger(ctx, EventSetup, frm); err != nil {
		return err
	}
	return r.Trigger(ctx, EventRefresh, frm)
}

// Doctypes lists every doctype with list settings or form handlers.
func (r *Registry) Doctypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	for k := range r.lists {
		seen[k] = struct{}{}
	}
	for k := range r.forms {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
