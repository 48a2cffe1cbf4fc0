package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv/internal/compile"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []any
	}{
		{"", []any{}},
		{"  a  b\tc\n", []any{"a", "b", "c"}},
		{"{a b} c", []any{"a b", "c"}},
		{"{a {b c}} d", []any{"a {b c}", "d"}},
		{`"x y" z`, []any{"x y", "z"}},
		{`a\ b c`, []any{"a b", "c"}},
		{"{}", []any{""}},
	}
	for _, tt := range tests {
		got, err := compile.ParseList(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"{a", `"a`, "{a}b", `"a"b`} {
		_, err := compile.ParseList(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatListRoundTrip(t *testing.T) {
	in := []any{"a", "b c", "", []any{"-type", "string"}, "x{y"}
	text := compile.FormatList(in)
	assert.Equal(t, `a {b c} {} {-type string} x\{y`, text)

	out, err := compile.ParseList(text)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b c", "", "-type string", "x{y"}, out)
}

func TestVectorAndText(t *testing.T) {
	vec, err := compile.Vector([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, vec)

	_, err = compile.Vector(42)
	assert.Error(t, err)

	assert.Equal(t, "42", compile.Text(42))
	assert.Equal(t, "true", compile.Text(true))
	assert.Equal(t, "a {b c}", compile.Text([]any{"a", []any{"b", "c"}}))
}
