package validation

import (
	"time"

	"github.com/rs/zerolog"
)

// Op names a validation entry point for observers.
type Op string

const (
	OpParse  Op = "parse"
	OpForm   Op = "form"
	OpField  Op = "field"
	OpAsync  Op = "async"
	OpSubmit Op = "submit"
)

// Outcome classifies a finished validation for observers.
type Outcome string

const (
	OutcomeValid      Outcome = "valid"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeGeneral    Outcome = "general"
	OutcomeSuperseded Outcome = "superseded"
	OutcomeFailed     Outcome = "failed"
)

// Observer receives one notification per finished validation. Implementations
// must be safe for concurrent use; async validations report from timer
// goroutines.
type Observer interface {
	Observe(op Op, outcome Outcome, elapsed time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(op Op, outcome Outcome, elapsed time.Duration)

// Observe calls f.
func (f ObserverFunc) Observe(op Op, outcome Outcome, elapsed time.Duration) {
	f(op, outcome, elapsed)
}

type nopObserver struct{}

func (nopObserver) Observe(Op, Outcome, time.Duration) {}

// DefaultDebounce is used by the async validator when no debounce is set.
const DefaultDebounce = 300 * time.Millisecond

// Option configures the validators in this package.
type Option func(*settings)

type settings struct {
	logger   zerolog.Logger
	observer Observer
	debounce time.Duration
}

func newSettings(opts []Option) settings {
	cfg := settings{
		logger:   zerolog.Nop(),
		observer: nopObserver{},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger used for debug traces of unrecognized schema
// failures and superseded async calls.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithObserver registers an observer; nil keeps the no-op default.
func WithObserver(observer Observer) Option {
	return func(s *settings) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithDebounce sets the async debounce window. Non-positive values keep the
// default.
func WithDebounce(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.debounce = d
		}
	}
}
