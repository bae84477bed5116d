package validation

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

// AsyncValidator debounces validation requests over one schema. All calls
// made through the same instance share a single pending slot: a new call
// cancels the previous timer, and only the last call of a burst is evaluated.
type AsyncValidator[T any] struct {
	cfg    settings
	schema schema.Schema[T]

	mu      sync.Mutex
	pending *pendingCall
	seq     uint64
	stopped bool
}

// pendingCall is the cancellable handle for the armed timer. token matches
// the validator sequence number at arm time; a fire with a stale token is a
// no-op.
type pendingCall struct {
	timer *time.Timer
	token uint64
	armed time.Time
}

// NewAsyncValidator builds a debounced validator. Use WithDebounce to change
// the default 300ms window.
func NewAsyncValidator[T any](s schema.Schema[T], opts ...Option) *AsyncValidator[T] {
	return &AsyncValidator[T]{
		cfg:    newSettings(opts),
		schema: s,
	}
}

// Debounce reports the configured window.
func (a *AsyncValidator[T]) Debounce() time.Duration {
	return a.cfg.debounce
}

// Validate schedules an evaluation of raw and returns a channel that receives
// exactly one Result once the debounce window elapses without a newer call.
//
// A call superseded before its timer fires is abandoned: its channel is never
// written to nor closed. Callers that cannot wait forever should use Await
// with a context.
func (a *AsyncValidator[T]) Validate(raw any) <-chan Result[T] {
	out := make(chan Result[T], 1)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		a.cfg.logger.Debug().Msg("validation: async validator stopped, call abandoned")
		return out
	}

	if a.pending != nil {
		a.pending.timer.Stop()
		// A superseded call never ran the schema, so it adds no validation time.
		a.cfg.observer.Observe(OpAsync, OutcomeSuperseded, 0)
		a.cfg.logger.Debug().Uint64("token", a.pending.token).Dur("waited", time.Since(a.pending.armed)).Msg("validation: async call superseded")
		a.pending = nil
	}

	a.seq++
	token := a.seq
	a.pending = &pendingCall{
		token: token,
		armed: time.Now(),
		timer: time.AfterFunc(a.cfg.debounce, func() {
			a.fire(token, raw, out)
		}),
	}
	return out
}

func (a *AsyncValidator[T]) fire(token uint64, raw any, out chan<- Result[T]) {
	a.mu.Lock()
	if a.stopped || a.pending == nil || a.pending.token != token {
		a.mu.Unlock()
		return
	}
	a.pending = nil
	a.mu.Unlock()

	out <- safeParse(a.cfg, OpAsync, a.schema, raw)
}

// Pending reports whether a timer is currently armed.
func (a *AsyncValidator[T]) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Stop cancels the pending timer, if any, and abandons every later call. It is
// safe to call more than once.
func (a *AsyncValidator[T]) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		a.pending.timer.Stop()
		a.pending = nil
	}
	a.stopped = true
}

// ValidateAsync builds a fresh AsyncValidator and invokes it once. Separate
// calls never debounce each other because each owns its own timer slot.
func ValidateAsync[T any](s schema.Schema[T], raw any, opts ...Option) <-chan Result[T] {
	return NewAsyncValidator(s, opts...).Validate(raw)
}

// Await blocks until ch delivers a result or ctx is done.
func Await[T any](ctx context.Context, ch <-chan Result[T]) (Result[T], error) {
	select {
	case result := <-ch:
		return result, nil
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}
