package roster

import "fmt"

// UnknownCharacterError is returned when an identifier is not in the character roster
type UnknownCharacterError struct {
	ID string
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("unknown character %q", e.ID)
}

// UnknownStageError is returned when an identifier is not in the stage roster
type UnknownStageError struct {
	ID string
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("unknown stage %q", e.ID)
}
