package desk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"lending-desk/internal/domain/document"
)

// Caller invokes a named remote operation. A nil message with a nil error means
// the operation answered without a message.
type Caller interface {
	Call(ctx context.Context, method string, args any) (json.RawMessage, error)
}

type Route struct {
	View    string `json:"view"`
	Doctype string `json:"doctype"`
	Name    string `json:"name"`
}

type Router interface {
	SetRoute(r Route)
}

type Notifier interface {
	Notify(msg string)
}

// Session bundles the client-side collaborators a form action uses.
type Session struct {
	Caller   Caller
	Router   Router
	Notifier Notifier
	Model    *Model

	guard *InFlight
}

func NewSession(c Caller, r Router, n Notifier) *Session {
	return &Session{Caller: c, Router: r, Notifier: n, Model: NewModel(), guard: NewInFlight()}
}

// WithGuard makes the session share g with other sessions, so an action running in
// one of them blocks the same action in the others.
func (s *Session) WithGuard(g *InFlight) *Session {
	s.guard = g
	return s
}

// Begin marks key as in flight. ok is false when it already is; release must be
// called once the action finishes.
func (s *Session) Begin(key string) (release func(), ok bool) {
	return s.guard.Begin(key)
}

// InFlight is a set of keys for actions that have started and not finished.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewInFlight() *InFlight { return &InFlight{keys: map[string]struct{}{}} }

func (g *InFlight) Begin(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return func() {}, false
	}
	g.keys[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.keys, key)
			g.mu.Unlock()
		})
	}, true
}

func (s *Session) Notify(msg string) {
	if s.Notifier != nil {
		s.Notifier.Notify(msg)
	}
}

// Model is the session's local cache of materialized records.
type Model struct {
	mu   sync.RWMutex
	docs map[string]*document.Doc
}

func NewModel() *Model { return &Model{docs: map[string]*document.Doc{}} }

func modelKey(doctype, name string) string { return doctype + "\x00" + name }

// Sync decodes a record payload and stores it, replacing any older copy.
func (m *Model) Sync(raw json.RawMessage) (*document.Doc, error) {
	if isNull(raw) {
		return nil, ErrNoMessage
	}
	var d document.Doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("sync record: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("sync record: %w", err)
	}
	m.mu.Lock()
	m.docs[modelKey(d.Doctype, d.Name)] = &d
	m.mu.Unlock()
	return &d, nil
}

func (m *Model) Get(doctype, name string) (*document.Doc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[modelKey(doctype, name)]
	return d, ok
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// History is a Router that records every route it is sent to.
type History struct {
	mu     sync.Mutex
	routes []Route
}

func (h *History) SetRoute(r Route) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, r)
}

// Current returns the latest route, or false when nothing navigated yet.
func (h *History) Current() (Route, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return Route{}, false
	}
	return h.routes[len(h.routes)-1], true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.routes)
}

// Messages is a Notifier that collects user notices.
type Messages struct {
	mu   sync.Mutex
	msgs []string
}

func (m *Messages) Notify(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *Messages) All() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.msgs...)
}
