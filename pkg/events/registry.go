// Package events provides a minimal named-event registry: subscribe,
// unsubscribe, and synchronous broadcast. The socket listener uses it to
// fan decoded change events out to consumers, but it carries no listener
// specifics and works for any in-process producer.
package events

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Handler receives the payload passed to Emit.
type Handler func(data any)

// Registry maps event names to ordered handler lists. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	logger   hclog.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to a null
// logger.
func NewRegistry(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{
		handlers: make(map[string][]Handler),
		logger:   logger.Named("events"),
	}
}

// On appends handler to the name's handler list. Registering the same
// handler twice means it runs twice per Emit; callers wanting single
// delivery must dedupe themselves.
func (r *Registry) On(name string, handler Handler) {
	if handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], handler)
}

// Off removes the first registration of handler under name, matching by
// function identity. Unknown handlers are a no-op.
func (r *Registry) Off(name string, handler Handler) {
	if handler == nil {
		return
	}
	target := reflect.ValueOf(handler).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.handlers[name]
	for i, h := range list {
		if reflect.ValueOf(h).Pointer() == target {
			r.handlers[name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// OffAll clears the handlers of the given names, or every registration when
// called with no arguments.
func (r *Registry) OffAll(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) == 0 {
		r.handlers = make(map[string][]Handler)
		return
	}
	for _, name := range names {
		delete(r.handlers, name)
	}
}

// Emit invokes every handler registered under name, in registration order,
// with data. Each invocation is isolated: a panicking handler is recovered
// and logged, and the remaining handlers still run. Emit never reports
// handler failures to its caller.
func (r *Registry) Emit(name string, data any) {
	r.mu.Lock()
	list := make([]Handler, len(r.handlers[name]))
	copy(list, r.handlers[name])
	r.mu.Unlock()

	for i, h := range list {
		r.invoke(name, i, h, data)
	}
}

// HandlerCount returns the number of handlers currently registered under
// name.
func (r *Registry) HandlerCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers[name])
}

func (r *Registry) invoke(name string, index int, h Handler, data any) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event handler panicked",
				"event", name,
				"handler_index", index,
				"error", fmt.Sprintf("%v", rec),
			)
		}
	}()
	h(data)
}
