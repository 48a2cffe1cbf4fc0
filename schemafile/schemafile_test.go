package schemafile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/schemafile"
)

func TestLoadTokenList(t *testing.T) {
	props, err := schemafile.Load([]byte(`
- [name, -type, string, -required]
- [tags, -type, array, -items, [-type, string, -match, list, -pattern, [a, b]]]
- "age -type integer -minimum 0"
`))
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{"name", "-type", "string", "-required"},
		[]any{"tags", "-type", "array", "-items", []any{"-type", "string", "-match", "list", "-pattern", []any{"a", "b"}}},
		"age -type integer -minimum 0",
	}, props)

	s, err := tjv.NewCompiler().CompileProperties(props)
	require.NoError(t, err)
	_, err = s.Validate(context.Background(), map[string]any{"name": "x", "tags": []any{"a", "c"}, "age": -1})
	assert.EqualError(t, err, "Error while validating data: tags[1] value is not the specified list of allowed values 'a b', age value is less than the minimum 0")
}

func TestLoadJSONTokenList(t *testing.T) {
	props, err := schemafile.Load([]byte(`[["id", "-type", "uuid"], ["n", "-type", "double", "-maximum", "2.5"]]`))
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{"id", "-type", "uuid"},
		[]any{"n", "-type", "double", "-maximum", "2.5"},
	}, props)
}

func TestLoadListText(t *testing.T) {
	props, err := schemafile.Load([]byte(`"{name -type string} {age -type integer}"`))
	require.NoError(t, err)
	assert.Equal(t, []any{"name -type string", "age -type integer"}, props)

	_, err = schemafile.ParseList("{open")
	assert.Error(t, err)
}

func TestLoadMapping(t *testing.T) {
	props, err := schemafile.Load([]byte(`
user:
  type: object
  required: true
  properties:
    id: {type: integer, minimum: 1, outkey: [user, id]}
    mail: {type: email, nullable: false}
    role: {type: string, match: glob, pattern: "adm*"}
list:
  type: array
  items: {type: object, properties: {x: {type: integer, outkey: x}}}
check: {type: integer, command: "value > 0"}
`))
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{"user", "-type", "object", "-required", "-properties", []any{
			[]any{"id", "-type", "integer", "-minimum", "1", "-outkey", []any{"user", "id"}},
			[]any{"mail", "-type", "email"},
			[]any{"role", "-type", "string", "-match", "glob", "-pattern", "adm*"},
		}},
		[]any{"list", "-type", "array", "-items", []any{"-type", "object", "-properties", []any{
			[]any{"x", "-type", "integer", "-outkey", "x"},
		}}},
		[]any{"check", "-type", "integer", "-command", "value > 0"},
	}, props)

	_, err = tjv.NewCompiler().CompileProperties(props)
	require.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", ``, "schemafile: empty document"},
		{"syntax", `[a, b`, "schemafile: yaml"},
		{"scalar property", `a: string`, `line 1: property "a" must be a mapping of options`},
		{"unknown option", "a:\n  kind: string", `a->line 2: unknown option "kind"`},
		{"bad flag", `a: {type: string, required: maybe}`, "a->line 1: expected a boolean"},
		{"nested mapping in list", `- [a, {b: c}]`, "line 1: mapping inside a token list"},
		{"nested error path", `a: {type: object, properties: {b: {type: x, items: []}}}`, `a->b->line 1: option "items" expects a mapping`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schemafile.Load([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- [a, -type, boolean]\n"), 0o600))

	props, err := schemafile.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"a", "-type", "boolean"}}, props)

	_, err = schemafile.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
