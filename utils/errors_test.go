package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrapping(t *testing.T) {
	cause := errors.New("boom")
	appErr := BadRequestError("bad input", cause)

	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.ErrorIs(t, appErr, cause)

	wrapped := WrapError(appErr, "while handling request")
	got := GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestGetAppErrorPlainError(t *testing.T) {
	assert.Nil(t, GetAppError(errors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(NotFoundError("missing", nil)))
	assert.False(t, IsNotFoundError(BadRequestError("bad", nil)))
	assert.False(t, IsNotFoundError(errors.New("plain")))
}
