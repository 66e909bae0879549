package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRegistry = NewRegistry("TEST")
	codeMissing  = testRegistry.Register("MISSING", TypeNotFound, http.StatusNotFound, "Thing not found")
	codeState    = testRegistry.Register("BAD_STATE", TypeBusiness, http.StatusConflict, "Bad state")
)

func TestRegistry_New(t *testing.T) {
	err := testRegistry.New(codeMissing)

	assert.Equal(t, Code("TEST_MISSING"), err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "[TEST_MISSING] Thing not found", err.Error())
}

func TestRegistry_NewReturnsIndependentInstances(t *testing.T) {
	first := testRegistry.New(codeState).WithDetail("status", "draft")
	second := testRegistry.New(codeState)

	assert.Equal(t, "draft", first.Details["status"])
	assert.Nil(t, second.Details)
}

func TestRegistry_UnknownCode(t *testing.T) {
	err := testRegistry.New(Code("TEST_NOPE"))
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestError_IsAndAs(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", testRegistry.NewWithCause(codeMissing, cause))

	assert.True(t, errors.Is(err, testRegistry.New(codeMissing)))
	assert.False(t, errors.Is(err, testRegistry.New(codeState)))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, HasCode(err, codeMissing))
	assert.True(t, IsType(err, TypeNotFound))

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, codeMissing, e.Code)
}

func TestWrap(t *testing.T) {
	t.Run("plain error becomes typed", func(t *testing.T) {
		err := Wrap(errors.New("db down"), "failed to load", TypeInternal)
		assert.Equal(t, TypeInternal, err.Type)
		assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("registered error keeps code and status", func(t *testing.T) {
		err := Wrap(testRegistry.New(codeMissing), "failed to load", TypeInternal)
		assert.Equal(t, codeMissing, err.Code)
		assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "noop", TypeInternal))
	})
}

func TestToHTTPResponse(t *testing.T) {
	resp := testRegistry.New(codeState).
		WithDetails(map[string]any{"from": "draft", "to": "paused"}).
		ToHTTPResponse()

	assert.Equal(t, Code("TEST_BAD_STATE"), resp["code"])
	assert.Equal(t, TypeBusiness, resp["type"])
	assert.Equal(t, map[string]any{"from": "draft", "to": "paused"}, resp["details"])
}
