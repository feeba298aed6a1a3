package common

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

func TestRespondJSONWrapsPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"abc"}}`, rec.Body.String())
}

func TestRespondErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusBadRequest, "BAD_REQUEST", "missing field")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"BAD_REQUEST","message":"missing field"}}`, rec.Body.String())
}

func TestRespondAppErrorUsesErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondAppError(rec, pkgerrors.NewConflictError("session is busy"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
	assert.Contains(t, rec.Body.String(), "session is busy")
}

func TestRespondAppErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondAppError(rec, assertableError("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestParseJSONBodyRejectsUnknownFields(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","extra":1}`))
	err := ParseJSONBody(req, &out, 1024)
	assert.Error(t, err)
}

func TestParseJSONBodyEnforcesSizeLimit(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	large := `{"name":"` + strings.Repeat("a", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(large)))
	err := ParseJSONBody(req, &out, 16)
	assert.Error(t, err)

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, ParseJSONBody(small, &out, 1024))
	assert.Equal(t, "ok", out.Name)
}
