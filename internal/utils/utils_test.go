package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "Order not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Order not found", body["message"])
}

func TestWriteJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	t.Run("Valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"Packed"}`))
		var p payload
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &p))
		assert.Equal(t, "Packed", p.Status)
	})

	t.Run("Empty", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(""))
		var p payload
		assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &p), ErrBadBody)
	})

	t.Run("Malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":`))
		var p payload
		assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &p), ErrBadBody)
	})
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()

	got, err := ParseUUID(" " + id.String())
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUID("42")
	assert.Error(t, err)
}

func TestQueryParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?status=Packed&role=%20", nil)

	status := QueryParam(r, "status")
	require.NotNil(t, status)
	assert.Equal(t, "Packed", *status)
	assert.Nil(t, QueryParam(r, "role"))
	assert.Nil(t, QueryParam(r, "missing"))
}
