package form

// Event is the triggering UI event handed to HandleSubmit. Its default action
// is suppressed before validation runs.
type Event interface {
	PreventDefault()
}

// EventFunc adapts a function to Event.
type EventFunc func()

// PreventDefault calls f.
func (f EventFunc) PreventDefault() {
	if f != nil {
		f()
	}
}
