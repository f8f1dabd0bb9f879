// Package fetch wraps remote data access with a static fallback. An Accessor
// always has data to render: the last successful result, or the fallback when
// nothing succeeded yet or the latest attempt failed.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/findosh/marketiq/internal/logging"
)

// ErrUnknown is recorded when an accessor panics with a non-error value
var ErrUnknown = errors.New("unknown error")

// Func retrieves a value from a remote source
type Func[T any] func(ctx context.Context) (T, error)

// State is a snapshot of an Accessor
type State[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// ErrorMessage returns a human-readable message, or "" when there is no error
func (s State[T]) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Option configures an Accessor
type Option[T any] func(*Accessor[T])

// WithLogger sets the logger used to report failures
func WithLogger[T any](logger *logging.Logger) Option[T] {
	return func(a *Accessor[T]) {
		a.logger = logger
	}
}

// WithName labels log lines from this accessor
func WithName[T any](name string) Option[T] {
	return func(a *Accessor[T]) {
		a.name = name
	}
}

// OnChange registers an observer called after every state transition
func OnChange[T any](fn func(State[T])) Option[T] {
	return func(a *Accessor[T]) {
		a.observers = append(a.observers, fn)
	}
}

// Accessor runs a Func and keeps the resulting State. It is safe for
// concurrent use. Every invocation takes a new generation number and only the
// latest generation may commit, so a slow superseded request never overwrites
// a newer one.
type Accessor[T any] struct {
	fn       Func[T]
	fallback T
	name     string
	logger   *logging.Logger

	mu         sync.Mutex
	state      State[T]
	generation uint64
	deps       []any
	synced     bool

	observers []func(State[T])
}

// New creates an accessor in the idle state holding fallback
func New[T any](fn Func[T], fallback T, opts ...Option[T]) *Accessor[T] {
	a := &Accessor[T]{
		fn:       fn,
		fallback: fallback,
		name:     "fetch",
		logger:   logging.NewSilent(),
		state:    State[T]{Data: fallback},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns a snapshot of the current state
func (a *Accessor[T]) State() State[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Sync fetches on the first call and whenever deps differ from the previous
// call, element by element. It blocks until the fetch completes and reports
// whether one ran.
func (a *Accessor[T]) Sync(ctx context.Context, deps ...any) bool {
	a.mu.Lock()
	if a.synced && depsEqual(a.deps, deps) {
		a.mu.Unlock()
		return false
	}
	a.deps = append([]any(nil), deps...)
	a.synced = true
	a.mu.Unlock()

	a.Refetch(ctx)
	return true
}

// Refetch runs the accessor regardless of deps and returns the state after
// completion. If a newer invocation started meanwhile, the returned state is
// whatever is current, not this invocation's result.
func (a *Accessor[T]) Refetch(ctx context.Context) State[T] {
	return a.run(ctx, a.begin())
}

// Go is the asynchronous Refetch. The generation is taken before Go returns,
// so calls are ordered by invocation. The channel receives one state and is
// closed.
func (a *Accessor[T]) Go(ctx context.Context) <-chan State[T] {
	gen := a.begin()
	ch := make(chan State[T], 1)
	go func() {
		defer close(ch)
		ch <- a.run(ctx, gen)
	}()
	return ch
}

// begin enters the loading state and returns the new generation. Data keeps
// its previous value while loading.
func (a *Accessor[T]) begin() uint64 {
	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.state.Loading = true
	snapshot := a.state
	a.mu.Unlock()

	a.notify(snapshot)
	return gen
}

func (a *Accessor[T]) run(ctx context.Context, gen uint64) State[T] {
	data, err := a.call(ctx)

	a.mu.Lock()
	if gen != a.generation {
		snapshot := a.state
		a.mu.Unlock()
		a.logger.Debug().
			Str("accessor", a.name).
			Uint64("generation", gen).
			Msg("discarding superseded result")
		return snapshot
	}

	if err != nil {
		a.state = State[T]{Data: a.fallback, Err: err}
	} else {
		a.state = State[T]{Data: data}
	}
	snapshot := a.state
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("accessor", a.name).
			Msg("request failed, using fallback data")
	}

	a.notify(snapshot)
	return snapshot
}

// call invokes fn and converts a panic into an error
func (a *Accessor[T]) call(ctx context.Context) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			data = zero
			if e, ok := r.(error); ok {
				err = fmt.Errorf("accessor panicked: %w", e)
			} else {
				err = ErrUnknown
			}
		}
	}()
	return a.fn(ctx)
}

func (a *Accessor[T]) notify(s State[T]) {
	for _, fn := range a.observers {
		fn(s)
	}
}

func depsEqual(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !reflect.DeepEqual(prev[i], next[i]) {
			return false
		}
	}
	return true
}
