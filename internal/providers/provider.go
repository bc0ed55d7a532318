// Package providers implements dynamic completion value sources:
// named functions that compute candidate values from the current parse
// state at completion time. Providers must be side-effect-free; the
// engine bounds every call with a timeout and treats failures as an
// empty contribution so a broken provider can never break completion.
package providers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Request is the narrow view of parse state handed to a provider.
type Request struct {
	// VerbPath is the chain of verbs consumed so far, root excluded.
	VerbPath []string
	// FlagValues maps consumed flag canonical names to their values.
	FlagValues map[string][]string
	// Positionals are the positional tokens consumed so far.
	Positionals []string
	// Dir is the directory completion is running in.
	Dir string
}

// Func computes an ordered sequence of candidate values for a request.
type Func func(ctx context.Context, req Request) ([]string, error)

// Registry maps provider names to their implementations. Registration
// happens at startup, before the grammar referencing the providers is
// validated; the registry is read-only afterwards.
type Registry struct {
	logger *zap.Logger
	order  []string
	funcs  map[string]Func
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger: logger,
		funcs:  make(map[string]Func),
	}
}

// Register adds a named provider. Registering the same name twice is a
// construction-time error.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("provider name must not be empty")
	}
	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.order = append(r.order, name)
	r.funcs[name] = fn
	return nil
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Collect invokes the named providers concurrently, each bounded by
// timeout, and returns their results aligned with names. A provider
// that errors, panics, or exceeds its budget contributes a nil slice;
// the other providers are unaffected.
func (r *Registry) Collect(ctx context.Context, timeout time.Duration, req Request, names []string) [][]string {
	results := make([][]string, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			fn, ok := r.funcs[name]
			if !ok {
				// Grammar validation should make this unreachable.
				r.logger.Warn("unknown completion provider", zap.String("provider", name))
				return nil
			}
			values, err := invoke(ctx, fn, req, timeout)
			if err != nil {
				r.logger.Warn("completion provider failed",
					zap.String("provider", name),
					zap.Error(err),
				)
				return nil
			}
			results[i] = values
			return nil
		})
	}
	// Goroutines never return errors; failures degrade to nil results.
	_ = g.Wait()

	return results
}

// invoke runs fn under a deadline. If the deadline expires the in-flight
// call is abandoned rather than awaited: a tab press cannot wait out a
// provider stuck on external state.
func invoke(ctx context.Context, fn Func, req Request, timeout time.Duration) ([]string, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		values []string
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("provider panicked: %v", rec)}
			}
		}()
		values, err := fn(cctx, req)
		done <- outcome{values: values, err: err}
	}()

	select {
	case out := <-done:
		return out.values, out.err
	case <-cctx.Done():
		return nil, cctx.Err()
	}
}
