package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(InvalidInput, "bad operator arity")
	assert.Equal(t, "bad operator arity", err.Error())

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, InvalidInput, e.Code())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Wrap(inner, OracleUnavailable, "oracle query failed")

	assert.Equal(t, "oracle query failed: connection refused", err.Error())
	assert.Equal(t, inner, errors.Unwrap(err))

	assert.Nil(t, Wrap(nil, OracleUnavailable, "ignored"))
}

func TestWithFields(t *testing.T) {
	err := WithFields(New(ValidationFailed, "bad config"), Fields{"mode": "warp"})

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, ValidationFailed, e.Code())
	assert.Equal(t, "warp", e.Fields()["mode"])
	assert.Contains(t, err.Error(), "mode=warp")
}

func TestWithFieldsMerges(t *testing.T) {
	err := WithFields(New(EvaluationFailed, "score failed"), Fields{"a": 1})
	err = WithFields(err, Fields{"b": 2})

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Fields()["a"])
	assert.Equal(t, 2, e.Fields()["b"])
	assert.Equal(t, EvaluationFailed, e.Code())
}

func TestWithFieldsForeignError(t *testing.T) {
	err := WithFields(fmt.Errorf("plain"), Fields{"k": "v"})

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, Unknown, e.Code())
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(InvalidResponse, "tag mismatch")
	assert.True(t, errors.Is(err, New(InvalidResponse, "anything")))
	assert.False(t, errors.Is(err, New(GenerationFailed, "anything")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, GenerationFailed, Code(New(GenerationFailed, "x")))
	assert.Equal(t, Unknown, Code(fmt.Errorf("plain")))
}
