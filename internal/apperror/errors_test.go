package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound_matchesWrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", &NotFoundError{Collection: "jobs", ID: "abc"})

	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("something else")))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidation("title", "must not be empty")))
	assert.False(t, IsValidation(&NotFoundError{}))
}

func TestTransportError_unwraps(t *testing.T) {
	cause := errors.New("broker down")
	err := &TransportError{IntentID: "abc", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "abc")
}

func TestValidationError_messageWithField(t *testing.T) {
	assert.Contains(t, NewValidation("status", "unknown").Error(), `"status"`)
	assert.Contains(t, (&ValidationError{Reason: "bad batch"}).Error(), "bad batch")
}
