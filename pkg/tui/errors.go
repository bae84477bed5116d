package tui

import "github.com/cockroachdb/errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFields is returned when a filler is built without fields.
	ErrNoFields = errors.New("tui: no fields to prompt")
	// ErrNilController is returned when a filler is built without a controller.
	ErrNilController = errors.New("tui: nil controller")
)
