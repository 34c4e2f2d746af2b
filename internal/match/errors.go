package match

import "fmt"

// UnknownModeError is returned for a mode tag that is not sp, mp or ffa
type UnknownModeError struct {
	Tag string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown game mode %q", e.Tag)
}

// ValidationError is returned when record fields break the record invariants
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
