package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("project", "bob"), http.StatusNotFound},
		{"invalid input", NewInvalidInput("wait", nil), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("bad password", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("not the owner"), http.StatusForbidden},
		{"internal", NewInternal("db down", errors.New("conn refused")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("list: %w", NewNotFound("stats snapshot", "a|b")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestAppError_MessageKeepsCauseOutOfJSON(t *testing.T) {
	err := NewInternal("failed to save snapshot", errors.New("conn refused"))

	assert.Equal(t, "internal server error: An internal server error occurred (failed to save snapshot): conn refused", err.Error())
	assert.Equal(t, "internal server error", err.ToJSON()["error"])
	assert.NotContains(t, err.ToJSON()["message"], "conn refused")
}
