// Package testsupport holds fixture, golden file and observer helpers shared
// by the package tests.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formvalidate/pkg/validation"
)

// MustReadFixture returns the raw bytes of a fixture file.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MustLoadPayload decodes a JSON fixture into the map shape form values use.
func MustLoadPayload(t *testing.T, path string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := gojson.Unmarshal(MustReadFixture(t, path), &out); err != nil {
		t.Fatalf("decode payload %s: %v", path, err)
	}
	return out
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadFixture(t, path))
}

// DiffFieldErrors compares field error tables, treating nil and empty maps as
// equal.
func DiffFieldErrors(want, got map[string]validation.FieldError) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Observed is one notification captured by Observer.
type Observed struct {
	Op      validation.Op
	Outcome validation.Outcome
	Elapsed time.Duration
}

// Observer records validation notifications. Safe for concurrent use.
type Observer struct {
	mu     sync.Mutex
	events []Observed
}

var _ validation.Observer = (*Observer)(nil)

// Observe implements validation.Observer.
func (o *Observer) Observe(op validation.Op, outcome validation.Outcome, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, Observed{Op: op, Outcome: outcome, Elapsed: elapsed})
}

// Events returns a copy of the recorded notifications.
func (o *Observer) Events() []Observed {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Observed(nil), o.events...)
}
