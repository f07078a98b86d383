package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := New(CodeQuotaExceeded, "village already has 2 active coordinators")
	assert.True(t, HasCode(err, CodeQuotaExceeded))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeQuotaExceeded))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to persist record")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Contains(t, err.Error(), "failed to persist record")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWrappedCodeSurvivesFmtErrorf(t *testing.T) {
	err := fmt.Errorf("register coordinator: %w", New(CodeDuplicateIdentity, "national id already registered"))
	assert.True(t, HasCode(err, CodeDuplicateIdentity))
	assert.Equal(t, "national id already registered", MessageOf(err))
}

func TestMessageOfHidesInternals(t *testing.T) {
	assert.Equal(t, "internal error", MessageOf(errors.New("pq: deadlock detected")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:            http.StatusBadRequest,
		CodeNotFound:              http.StatusNotFound,
		CodeDuplicateIdentity:     http.StatusConflict,
		CodeIdentitySoftDeleted:   http.StatusConflict,
		CodeQuotaExceeded:         http.StatusConflict,
		CodeHasDependents:         http.StatusConflict,
		CodeInvalidRoleTransition: http.StatusUnprocessableEntity,
		CodeScopeMismatch:         http.StatusForbidden,
		CodeInternal:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
