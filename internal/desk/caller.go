package desk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MethodFunc serves one remote operation in process.
type MethodFunc func(ctx context.Context, args json.RawMessage) (any, error)

// LocalCaller dispatches calls to registered functions without a network hop.
type LocalCaller struct {
	mu      sync.RWMutex
	methods map[string]MethodFunc
}

func NewLocalCaller() *LocalCaller { return &LocalCaller{methods: map[string]MethodFunc{}} }

func (l *LocalCaller) Handle(method string, fn MethodFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.methods[method] = fn
}

func (l *LocalCaller) Call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	l.mu.RLock()
	fn, ok := l.methods[method]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("desk: unknown method %q", method)
	}
	in, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s args: %w", method, err)
	}
	out, err := fn(ctx, in)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	msg, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", method, err)
	}
	return msg, nil
}
