package groupform

import (
	"errors"
	"fmt"
)

// Form field names used by EmptyFieldError.
const (
	FieldName    = "name"
	FieldMention = "mention"
)

// UniqueNameErrorID is the server error id returned when a group mention is
// already taken.
const UniqueNameErrorID = "app.custom_group.unique_name"

var (
	ErrInvalidCharacter = errors.New("invalid character in mention name, use only letters and numbers")
	ErrDuplicateMention = errors.New("mention needs to be unique")
	ErrUnknownRemote    = errors.New("something went wrong, please try again")
)

// EmptyFieldError reports a required form field left blank.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("please enter a %s", e.Field)
}

// ServerErrorID extracts the server's error id from err, or "" when err does
// not carry one.
func ServerErrorID(err error) string {
	var coded interface{ ServerErrorID() string }
	if errors.As(err, &coded) {
		return coded.ServerErrorID()
	}
	return ""
}
