package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusConflict, "Invalid State", "user is already approved")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))

	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, Problem{Type: "about:blank", Title: "Invalid State", Status: 409, Detail: "user is already approved"}, p)
}

func TestNewDefaultsTitle(t *testing.T) {
	p := New(http.StatusBadGateway, "", "")
	assert.Equal(t, "Bad Gateway", p.Title)
}
