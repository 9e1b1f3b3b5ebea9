package fsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewDuplicateError(http.StatusNotAcceptable, "")
	assert.Equal(t, "fsp API error: duplicate (status 406)", err.Error())

	parseErr := NewParseFailedError(http.StatusOK, "nope", &json.SyntaxError{})
	assert.Contains(t, parseErr.Error(), "fsp API error: parse failed (status 200): ")

	assert.Equal(t, "fsp API error: enrich", ErrEnrich.Error())
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("create record: %w", NewDuplicateError(http.StatusNotAcceptable, "{}"))

	assert.True(t, errors.Is(wrapped, ErrDuplicate))
	assert.False(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrInvalidConfig))

	var apiErr *Error
	assert.True(t, errors.As(wrapped, &apiErr))
	assert.True(t, apiErr.IsDuplicate())
	assert.False(t, apiErr.IsInternal())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewParseFailedError(http.StatusOK, "{", cause)
	assert.ErrorIs(t, err, cause)
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
		msg    string
	}{
		{http.StatusBadRequest, KindValidation, "Got validation error"},
		{http.StatusUnauthorized, KindAuthorization, "Got authorization error"},
		{http.StatusNotAcceptable, KindDuplicate, "Got duplicate error"},
		{http.StatusInternalServerError, KindInternal, "Got internal error"},
		{http.StatusServiceUnavailable, KindEnrich, "Got enrich error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err, msg := statusError(tt.status, "body")
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.kind, err.Kind)
				assert.Equal(t, tt.status, err.Status)
				assert.Equal(t, "body", err.Body)
			}
			assert.Equal(t, tt.msg, msg)
		})
	}

	for _, status := range []int{200, 201, 204, 403, 404, 409, 502} {
		err, msg := statusError(status, "")
		assert.Nil(t, err, "status %d is left to the operation", status)
		assert.Empty(t, msg)
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "duplicate", KindDuplicate.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "enrich", KindEnrich.String())
	assert.Equal(t, "parse failed", KindParseFailed.String())
	assert.Equal(t, "authorization", KindAuthorization.String())
	assert.Equal(t, "internal", KindInternal.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
