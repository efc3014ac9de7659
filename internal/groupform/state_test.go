package groupform

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "saving", StatusSaving.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestServerErrorID(t *testing.T) {
	assert.Equal(t, "", ServerErrorID(nil))
	assert.Equal(t, "", ServerErrorID(fmt.Errorf("plain")))
	assert.Equal(t, UniqueNameErrorID, ServerErrorID(fmt.Errorf("wrapped: %w", codedErr{id: UniqueNameErrorID})))
}

func TestEmptyFieldErrorMessage(t *testing.T) {
	assert.EqualError(t, &EmptyFieldError{Field: FieldName}, "please enter a name")
}
