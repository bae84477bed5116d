package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

// State is a snapshot of a Controller. Snapshots are deep copies; mutating
// them has no effect on the controller.
type State struct {
	Values       map[string]any
	Errors       map[string]validation.FieldError
	IsSubmitting bool
}

// IsValid reports whether no field error is currently recorded.
func (s State) IsValid() bool {
	return len(s.Errors) == 0
}

// ErrorFor returns the error recorded for a field path.
func (s State) ErrorFor(field string) (validation.FieldError, bool) {
	err, ok := s.Errors[field]
	return err, ok
}

// Listener receives a snapshot after every mutation.
type Listener func(State)

// Controller owns one form's values, errors and submission flag. All
// operations are atomic with respect to each other; the submit callback runs
// outside the lock so it may call back into the controller.
type Controller[T any] struct {
	schema   schema.Schema[T]
	initial  map[string]any
	onSubmit SubmitFunc[T]
	opts     options

	mu         sync.Mutex
	values     map[string]any
	errors     map[string]validation.FieldError
	submitting bool

	listenersMu sync.Mutex
	listeners   map[uint64]Listener
	nextID      uint64
}

// New builds a Controller seeded with a copy of cfg.InitialValues.
func New[T any](cfg Config[T], opts ...Option) *Controller[T] {
	o := options{
		logger:     zerolog.Nop(),
		sanitize:   SanitizeMessage,
		idProvider: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	initial := cloneValues(cfg.InitialValues)
	return &Controller[T]{
		schema:    cfg.Schema,
		initial:   initial,
		onSubmit:  cfg.OnSubmit,
		opts:      o,
		values:    cloneValues(initial),
		errors:    make(map[string]validation.FieldError),
		listeners: make(map[uint64]Listener),
	}
}

func (c *Controller[T]) validationOptions() []validation.Option {
	opts := []validation.Option{validation.WithLogger(c.opts.logger)}
	if c.opts.observer != nil {
		opts = append(opts, validation.WithObserver(c.opts.observer))
	}
	return opts
}

// State returns a deep copy of the current state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() State {
	return State{
		Values:       cloneValues(c.values),
		Errors:       cloneErrors(c.errors),
		IsSubmitting: c.submitting,
	}
}

// Value returns the current value at a dotted field path.
func (c *Controller[T]) Value(field string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := lookupValue(c.values, field)
	return deepCopy(value), ok
}

// SetValue stores value at field and clears the field's recorded error
// without re-validating it. A nil value removes the field, so optional
// fields left blank stay absent.
func (c *Controller[T]) SetValue(field string, value any) {
	c.mutate(func() {
		if value == nil {
			removeValue(c.values, field)
		} else {
			c.values = assignValue(c.values, field, deepCopy(value))
		}
		delete(c.errors, field)
	})
}

// SetError records err for field; nil clears it.
func (c *Controller[T]) SetError(field string, err *validation.FieldError) {
	c.mutate(func() {
		c.setErrorLocked(field, err)
	})
}

func (c *Controller[T]) setErrorLocked(field string, err *validation.FieldError) {
	if err == nil {
		delete(c.errors, field)
		return
	}
	c.errors[field] = *err
}

// Validate runs the form validator over the current values. On success all
// errors are cleared; on failure the error table is replaced wholesale. A
// failure that cannot be attributed to a field is recorded under
// validation.GeneralKey.
func (c *Controller[T]) Validate() bool {
	var ok bool
	c.mutate(func() {
		ok = c.validateLocked()
	})
	return ok
}

func (c *Controller[T]) validateLocked() bool {
	result := validation.ValidateForm(c.schema, cloneValues(c.values), c.validationOptions()...)
	if result.IsValid {
		c.errors = make(map[string]validation.FieldError)
		return true
	}

	next := make(map[string]validation.FieldError, len(result.FieldErrors)+1)
	for path, fieldErr := range result.FieldErrors {
		next[path] = fieldErr
	}
	if result.GeneralError != "" {
		next[validation.GeneralKey] = validation.FieldError{Message: result.GeneralError}
	}
	c.errors = next
	return false
}

// ValidateField checks the current value of field against its sub-schema and
// records the outcome. Fields the schema cannot check individually pass.
func (c *Controller[T]) ValidateField(field string) bool {
	var ok bool
	c.mutate(func() {
		value, _ := lookupValue(c.values, field)
		fieldErr := validation.ValidateField(c.schema, field, deepCopy(value), c.validationOptions()...)
		c.setErrorLocked(field, fieldErr)
		ok = fieldErr == nil
	})
	return ok
}

// HandleSubmit validates the form and, when valid, invokes the submit
// callback with the parsed payload. IsSubmitting is true for the duration of
// the callback and cleared afterwards regardless of its outcome. Errors and
// panics from the callback are logged and swallowed. The return value reports
// whether the callback was reached.
func (c *Controller[T]) HandleSubmit(ctx context.Context, ev Event) bool {
	if ev != nil {
		ev.PreventDefault()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	var (
		valid   bool
		payload T
		err     error
	)
	c.mutate(func() {
		if valid = c.validateLocked(); !valid {
			return
		}
		c.submitting = true
		payload, err = validation.Parse(c.schema, cloneValues(c.values))
	})

	if !valid {
		c.observe(validation.OutcomeInvalid, start)
		return false
	}

	id := c.opts.idProvider()
	logger := c.opts.logger.With().Str("submission", id).Logger()
	defer c.mutate(func() {
		c.submitting = false
	})

	if err != nil {
		logger.Warn().Err(err).Msg("form: payload failed to re-parse after validation")
		c.observe(validation.OutcomeFailed, start)
		return false
	}

	if c.onSubmit == nil {
		c.observe(validation.OutcomeValid, start)
		return true
	}

	logger.Debug().Msg("form: submitting")
	if err := c.invokeSubmit(ctx, payload); err != nil {
		logger.Warn().Err(err).Msg("form: submit callback failed")
		c.observe(validation.OutcomeFailed, start)
		return true
	}
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("form: submitted")
	c.observe(validation.OutcomeValid, start)
	return true
}

func (c *Controller[T]) invokeSubmit(ctx context.Context, payload T) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("form: submit callback panicked: %v", rec)
		}
	}()
	return c.onSubmit(ctx, payload)
}

func (c *Controller[T]) observe(outcome validation.Outcome, start time.Time) {
	if c.opts.observer == nil {
		return
	}
	c.opts.observer.Observe(validation.OpSubmit, outcome, time.Since(start))
}

// Reset restores the initial values and clears errors and the submitting
// flag.
func (c *Controller[T]) Reset() {
	c.mutate(func() {
		c.values = cloneValues(c.initial)
		c.errors = make(map[string]validation.FieldError)
		c.submitting = false
	})
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned function removes the listener.
func (c *Controller[T]) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	c.listenersMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenersMu.Lock()
			delete(c.listeners, id)
			c.listenersMu.Unlock()
		})
	}
}

// mutate applies fn under the state lock and notifies listeners with the
// resulting snapshot once the lock is released.
func (c *Controller[T]) mutate(fn func()) {
	c.mu.Lock()
	fn()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.listenersMu.Lock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.listenersMu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
