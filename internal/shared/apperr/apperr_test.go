package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := Validation("resumes.Replace", "unsupported file type")
	wrapped := fmt.Errorf("upload: %w", base)

	assert.True(t, Is(wrapped, KindValidation))
	assert.False(t, Is(wrapped, KindRemoteStore))
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.Equal(t, "unsupported file type", Message(wrapped))
}

func TestRemoteStoreWrapsOnce(t *testing.T) {
	cause := errors.New("connection reset")
	err := RemoteStore("resumes.Replace", "blob delete failed", cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	again := RemoteStore("applications.Apply", "other", err)
	assert.Same(t, err, again)

	assert.NoError(t, RemoteStore("op", "msg", nil))
}

func TestHTTPMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{Validation("op", "bad"), http.StatusBadRequest, "validation_error"},
		{E(KindNotAuthenticated, "op", "no session", nil), http.StatusUnauthorized, "unauthorized"},
		{NotFound("op", "missing"), http.StatusNotFound, "not_found"},
		{E(KindPreconditionFailed, "op", "no resume", nil), http.StatusPreconditionFailed, "precondition_failed"},
		{E(KindInvalidStateTransition, "op", "nope", nil), http.StatusConflict, "invalid_state_transition"},
		{RemoteStore("op", "down", errors.New("x")), http.StatusBadGateway, "remote_store_error"},
		{errors.New("plain"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
		assert.Equal(t, tt.code, Code(tt.err), tt.err.Error())
	}
}

func TestMessageHidesUnclassified(t *testing.T) {
	assert.Equal(t, "unexpected server error", Message(errors.New("pq: secret detail")))
}
