package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
)

func TestFormatForCLI(t *testing.T) {
	err := cerrors.New(cerrors.InvalidArgument, "k must be positive")
	out := cerrors.FormatForCLI(err)
	assert.Contains(t, out, "k must be positive")
	assert.Contains(t, out, "INVALID_ARGUMENT")
}

func TestFormatJSONRoundTripsKind(t *testing.T) {
	err := cerrors.New(cerrors.NotFound, "edge not found")
	data, jerr := cerrors.FormatJSON(err)
	require.NoError(t, jerr)
	assert.Contains(t, string(data), `"kind":"NOT_FOUND"`)
}

func TestFormatForLogIncludesDetails(t *testing.T) {
	err := cerrors.New(cerrors.InvalidArgument, "bad weight").WithDetail("field", "alpha")
	attrs := cerrors.FormatForLog(err)
	assert.Equal(t, "alpha", attrs["detail_field"])
}
