package tjv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := tjv.NewRegistry()
	defer r.Close()

	name, err := r.Compile([]any{"-type", "integer", "-maximum", "9"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, tjv.HandlePrefix))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{name}, r.Names())

	s, ok := r.Lookup(name)
	require.True(t, ok)
	assert.Equal(t, name, s.Name())

	out, err := r.Validate(ctx, name, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), out)

	_, err = r.Validate(ctx, name, 10)
	ve, ok := tjv.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, name, ve.Name)

	other, err := r.Compile([]any{"-type", "string"})
	require.NoError(t, err)
	assert.NotEqual(t, name, other)

	assert.True(t, r.Delete(name))
	assert.False(t, r.Delete(name))
	_, err = r.Validate(ctx, name, 1)
	assert.ErrorIs(t, err, tjv.ErrRegistryNotFound)
	assert.Equal(t, 1, r.Len())

	_, err = r.Compile([]any{"-type", "nope"})
	assert.ErrorIs(t, err, tjv.ErrInvalidSchema)
	assert.Equal(t, 1, r.Len())
}
