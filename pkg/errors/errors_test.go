package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WithCauseDoesNotMutate(t *testing.T) {
	base := ErrInvalidRequest("ms must be an integer")
	cause := goerrors.New("strconv.Atoi: parsing \"abc\": invalid syntax")

	wrapped := base.WithCause(cause)

	assert.Nil(t, base.Unwrap())
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "invalid_request")
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	a := ErrInvalidRequest("a")
	b := ErrInvalidRequest("b")
	c := ErrServerError("c")

	assert.True(t, goerrors.Is(a, b))
	assert.False(t, goerrors.Is(a, c))
}

func TestHTTPStatusOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrServiceUnavailable("redis down"))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeTemporarilyUnavailable, appErr.Code())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatusOf(wrapped))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusOf(goerrors.New("plain")))
}
