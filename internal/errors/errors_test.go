package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/fbpong/internal/errors"
)

func TestNewNil(t *testing.T) {
	assert.Nil(t, errors.New(nil))
	var err error
	assert.Nil(t, errors.New(err))
}

func TestNewKeepsOrigin(t *testing.T) {
	sentinel := stderrors.New(`sentinel`)
	err := errors.New(sentinel)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
	// wrapping twice keeps the first stack
	assert.Same(t, err, errors.New(err))

	var errGo *errors.Error
	require.True(t, errors.As(err, &errGo))
	assert.Contains(t, errGo.ErrorStack(), `TestNewKeepsOrigin`)
}

func TestJoin(t *testing.T) {
	assert.Nil(t, errors.Join(nil, nil))
	a, b := stderrors.New(`a`), stderrors.New(`b`)
	err := errors.Join(a, nil, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, a))
	assert.True(t, errors.Is(err, b))
}

func TestNilParam(t *testing.T) {
	assert.NoError(t, errors.NilParam(1, `x`))
	err := errors.NilParam(1, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), `nil parameter: `))
	assert.Contains(t, err.Error(), `TestNilParam`)
}
