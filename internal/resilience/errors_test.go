package resilience

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient_ExplicitTransientError(t *testing.T) {
	err := NewTransientError(errors.New("http 503"), 503)
	assert.True(t, IsTransient(err))

	wrapped := fmt.Errorf("stage failed: %w", err)
	assert.True(t, IsTransient(wrapped))
}

func TestIsTransient_Patterns(t *testing.T) {
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.True(t, IsTransient(errors.New("dial tcp: i/o timeout")))
	assert.False(t, IsTransient(errors.New("invalid schema")))
	assert.False(t, IsTransient(nil))
}

func TestIsValidation(t *testing.T) {
	err := NewValidationError(errors.New("missing total_revenue"))
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(eris.Wrap(err, "extract stage")))
	assert.False(t, IsValidation(errors.New("other")))
	assert.Contains(t, err.Error(), "validation")
}

func TestIsUnknownDocumentType(t *testing.T) {
	err := &UnknownDocumentTypeError{Type: "unknown-form"}
	assert.True(t, IsUnknownDocumentType(err))
	assert.True(t, IsUnknownDocumentType(eris.Wrap(err, "extract stage")))
	assert.False(t, IsUnknownDocumentType(errors.New("other")))
	assert.Contains(t, err.Error(), "unknown-form")
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}
