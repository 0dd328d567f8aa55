package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "covira/pkg/domain-errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error, body.Description
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeBadRequest, http.StatusBadRequest},
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeInvalidRequest, http.StatusBadRequest},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeConflict, http.StatusConflict},
		{dErrors.CodeAlreadySubmitted, http.StatusConflict},
		{dErrors.CodeMissingSignature, http.StatusUnprocessableEntity},
		{dErrors.CodeRateNotConfigured, http.StatusUnprocessableEntity},
		{dErrors.CodeTimeout, http.StatusGatewayTimeout},
		{dErrors.CodeStorageUnavailable, http.StatusServiceUnavailable},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(tt.code, "boom"))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWriteError_ForbiddenLooksLikeNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeForbidden, "access denied"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errCode, desc := decodeError(t, rec)
	assert.Equal(t, "not_found", errCode)
	assert.Empty(t, desc, "denial response must not leak the denial reason")
}

func TestWriteError_InternalOmitsDescription(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeInternal, "pq: connection refused"))

	errCode, desc := decodeError(t, rec)
	assert.Equal(t, "internal", errCode)
	assert.Empty(t, desc)
}

func TestWriteError_UserCorrectableKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeMissingSignature, "signature is required to submit"))

	errCode, desc := decodeError(t, rec)
	assert.Equal(t, "missing_signature", errCode)
	assert.Equal(t, "signature is required to submit", desc)
}

func TestWriteError_UncodedErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type echoRequest struct {
	Name string `json:"name"`
}

func (r *echoRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("decodes and validates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"name":"ok"}`)))
		rec := httptest.NewRecorder()

		decoded, ok := DecodeAndPrepare[echoRequest](rec, req, logger, context.Background(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "ok", decoded.Name)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{`)))
		rec := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[echoRequest](rec, req, logger, context.Background(), "req-1")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects failing validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[echoRequest](rec, req, logger, context.Background(), "req-1")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		errCode, _ := decodeError(t, rec)
		assert.Equal(t, "invalid_request", errCode)
	})
}
