package errors_test

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
)

func TestNewAndError(t *testing.T) {
	err := cerrors.New(cerrors.InvalidArgument, "empty query text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ARGUMENT")
	assert.Contains(t, err.Error(), "empty query text")
}

func TestWrapNilCauseReturnsNil(t *testing.T) {
	err := cerrors.Wrap(cerrors.Exhausted, "cache full", nil)
	assert.Nil(t, err)
}

func TestUnwrapAndIs(t *testing.T) {
	cause := goerrors.New("boom")
	wrapped := cerrors.Wrap(cerrors.NotFound, "edge not found", cause)
	require.Error(t, wrapped)
	assert.True(t, goerrors.Is(wrapped, cause))
	assert.Equal(t, cerrors.NotFound, cerrors.KindOf(wrapped))
}

func TestIsMatchesOnKindOnly(t *testing.T) {
	a := cerrors.New(cerrors.DeadlineExceeded, "query timed out")
	b := cerrors.New(cerrors.DeadlineExceeded, "a different message")
	assert.True(t, goerrors.Is(a, b))

	c := cerrors.New(cerrors.NotFound, "not the same kind")
	assert.False(t, goerrors.Is(a, c))
}

func TestWithDetail(t *testing.T) {
	err := cerrors.New(cerrors.InvalidArgument, "dimension mismatch").
		WithDetail("expected", "128").
		WithDetail("got", "64")
	assert.Equal(t, "128", err.Details["expected"])
	assert.Equal(t, "64", err.Details["got"])
}

func TestIsHelper(t *testing.T) {
	err := cerrors.New(cerrors.Exhausted, "capacity reached")
	assert.True(t, cerrors.Is(err, cerrors.Exhausted))
	assert.False(t, cerrors.Is(err, cerrors.NotFound))
	assert.False(t, cerrors.Is(goerrors.New("plain"), cerrors.Exhausted))
}
