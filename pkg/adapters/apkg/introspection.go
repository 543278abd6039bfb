package apkg

import (
	"github.com/aretw0/introspection"
)

// WriterState exposes internal state for observability.
type WriterState struct {
	LastWrite *WriteStats `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Writer) State() any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	state := WriterState{}
	if w.last != nil {
		last := *w.last
		state.LastWrite = &last
	}
	return state
}

// ComponentType implements introspection.Component.
func (w *Writer) ComponentType() string {
	return "apkg-writer"
}

var _ introspection.Introspectable = (*Writer)(nil)
var _ introspection.Component = (*Writer)(nil)
