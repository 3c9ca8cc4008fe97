package shared

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

type selfValidating struct {
	err error
}

func (s *selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"x","count":2}`))

	var target decodeTarget
	require.NoError(t, DecodeJSON(req, &target))
	assert.Equal(t, "x", target.Name)
	assert.Equal(t, 2, target.Count)

	bad := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{broken`))
	assert.Error(t, DecodeJSON(bad, &target))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&decodeTarget{Name: "x", Count: 1}))
	assert.Error(t, ValidateRequest(&decodeTarget{Count: 1}), "missing required field")
	assert.Error(t, ValidateRequest(&decodeTarget{Name: "x"}), "count below minimum")
}

func TestValidateRequestPrefersValidateMethod(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("custom validation")
	assert.ErrorIs(t, ValidateRequest(&selfValidating{err: sentinel}), sentinel)
	assert.NoError(t, ValidateRequest(&selfValidating{}))
}
