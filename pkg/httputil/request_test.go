package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid JSON",
			body:        `{"name": "test"}`,
			expectError: false,
		},
		{
			name:        "invalid JSON",
			body:        `{invalid}`,
			expectError: true,
		},
		{
			name:        "empty body",
			body:        ``,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(tt.body))
			var dest map[string]string

			err := ParseJSON(req, &dest)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "test", dest["name"])
			}
		})
	}
}

func TestParseOptionalJSON(t *testing.T) {
	t.Run("empty body leaves dest untouched", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/customers", nil)
		dest := struct{ Name string }{Name: "keep"}

		assert.NoError(t, ParseOptionalJSON(req, &dest))
		assert.Equal(t, "keep", dest.Name)
	})

	t.Run("zero length body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/customers", bytes.NewBufferString(""))
		var dest map[string]string

		assert.NoError(t, ParseOptionalJSON(req, &dest))
		assert.Nil(t, dest)
	})

	t.Run("decodes when present", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/customers", bytes.NewBufferString(`{"name":"Acme"}`))
		var dest map[string]string

		assert.NoError(t, ParseOptionalJSON(req, &dest))
		assert.Equal(t, "Acme", dest["name"])
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/customers", bytes.NewBufferString(`{"name":`))
		var dest map[string]string

		assert.Error(t, ParseOptionalJSON(req, &dest))
	})
}

func TestParseJSONOrError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		expectOK   bool
		expectCode int
	}{
		{
			name:     "valid JSON",
			body:     `{"name": "test"}`,
			expectOK: true,
		},
		{
			name:     "empty body",
			body:     ``,
			expectOK: true,
		},
		{
			name:       "invalid JSON",
			body:       `{invalid}`,
			expectOK:   false,
			expectCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(tt.body))
			var dest map[string]string

			ok := ParseJSONOrError(w, req, &dest)

			assert.Equal(t, tt.expectOK, ok)
			if !tt.expectOK {
				assert.Equal(t, tt.expectCode, w.Code)
			}
		})
	}
}

func TestParseQueryString(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/dashboard?type=usage", nil)
	assert.Equal(t, "usage", ParseQueryString(req, "type", "invoices"))
	assert.Equal(t, "x", ParseQueryString(req, "missing", "x"))
}
