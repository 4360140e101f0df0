package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := apperror.Unavailable("Service temporarily unavailable", cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.Equal(t, "Service temporarily unavailable", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestAppErrorAs(t *testing.T) {
	var wrapped error = apperror.MethodNotAllowed("nope")

	var appErr *apperror.AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusMethodNotAllowed, appErr.Code)
}
