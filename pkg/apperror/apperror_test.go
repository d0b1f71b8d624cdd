package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsChain(t *testing.T) {
	base := Forbidden("no access to business")
	wrapped := fmt.Errorf("listing orders: %w", base)

	assert.Equal(t, KindForbidden, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad payload"), http.StatusBadRequest},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("already completed"), http.StatusUnprocessableEntity},
		{Unprocessable("offer inactive"), http.StatusUnprocessableEntity},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("row locked")
	err := Wrap(KindConflict, "cannot transition order", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "row locked")
}
