package tjv_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/value"
)

func userSchema(t *testing.T) *tjv.Schema {
	t.Helper()
	s, err := tjv.Compile([]any{"-type", "object", "-properties",
		"{name -type string -required} {age -type integer -minimum 0 -maximum 150} {mail -type email}"})
	require.NoError(t, err)
	return s
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	s := userSchema(t)

	out, err := s.Validate(ctx, map[string]any{"name": "ann", "age": "42"})
	require.NoError(t, err)
	d, ok := out.(*value.Dict)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "ann", "age": int64(42)}, d.Map())

	_, err = s.Validate(ctx, map[string]any{"age": 200, "mail": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, tjv.ErrValidation)
	assert.Equal(t, "Error while validating data: .name should have required property 'name', age value is greater than the maximum 150, mail should be email", err.Error())

	ve, ok := tjv.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []tjv.Diagnostic{
		{Keyword: tjv.KeywordRequired, DataPath: ".name", Message: "should have required property 'name'"},
		{Keyword: tjv.KeywordValue, DataPath: "age", Message: "value is greater than the maximum 150"},
		{Keyword: tjv.KeywordType, DataPath: "mail", Message: "should be email"},
	}, ve.Data)
	assert.True(t, s.Is(ctx, map[string]any{"name": "x"}))
}

func TestValidateTo(t *testing.T) {
	ctx := context.Background()
	s := userSchema(t)

	var out any
	require.True(t, s.ValidateTo(ctx, map[string]any{"name": "bob"}, &out))
	assert.IsType(t, &value.Dict{}, out)

	require.False(t, s.ValidateTo(ctx, map[string]any{}, &out))
	ve, ok := out.(*tjv.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Error while validating data: .name should have required property 'name'", ve.Message)
	assert.Len(t, ve.Data, 1)
}

func TestValidateJSON(t *testing.T) {
	ctx := context.Background()
	s := userSchema(t)

	out, err := s.ValidateJSON(ctx, []byte(`{"name": "c", "age": 3, "extra": [1]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "extra"}, out.(*value.Dict).Keys())

	_, err = s.ValidateJSON(ctx, []byte(`{"name": "c", "age": "3"}`))
	assert.EqualError(t, err, "Error while validating data: age should be integer")

	_, err = s.ValidateJSON(ctx, []byte(`not json`))
	assert.EqualError(t, err, "Error while validating data: should be object")
}

func TestValidateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := userSchema(t).Validate(ctx, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluatePartialOutcome(t *testing.T) {
	s, err := tjv.NewCompiler().CompileProperties([]any{
		[]any{"id", "-type", "integer", "-outkey", "id"},
		[]any{"n", "-type", "integer", "-outkey", "n"},
	})
	require.NoError(t, err)

	r := s.Evaluate(context.Background(), map[string]any{"id": 1, "n": "x"})
	require.True(t, r.Failed())
	assert.Equal(t, []string{"n should be integer"}, r.Messages)
	assert.Equal(t, map[string]any{"id": int64(1)}, r.Outcome.(*value.Dict).Map())

	ve, ok := tjv.AsValidationError(r.Err("h"))
	require.True(t, ok)
	assert.Equal(t, "h", ve.Name)
	assert.Equal(t, r.Outcome, ve.Outcome)
	assert.NoError(t, tjv.Report{}.Err("h"))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []any
		path   []string
		msg    string
	}{
		{"missing type", []any{"-required"}, nil, "required option -type is not specified or its value is missing"},
		{"bad nested type", []any{"-type", "object", "-properties", "{a -type object -properties {{b -type blob}}}"},
			[]string{"a", "b"}, `bad type "blob": must be object, array, list, string, integer, json, boolean, double, email, uri, uri-template, url, hostname, ipv4, ipv6, uuid, duration, json-pointer, json-pointer-uri-fragment, or relative-json-pointer`},
		{"bad bound", []any{"-type", "integer", "-minimum", "x"}, nil, `expected integer but got "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tjv.Compile(tt.tokens)
			require.Error(t, err)
			assert.ErrorIs(t, err, tjv.ErrInvalidSchema)
			ce, ok := tjv.AsCompileError(err)
			require.True(t, ok)
			assert.Equal(t, tt.path, ce.Path)
			assert.Equal(t, tt.msg, ce.Message)
		})
	}

	_, ok := tjv.AsCompileError(nil)
	assert.False(t, ok)
	assert.Panics(t, func() { tjv.MustCompile([]any{"-type"}) })
}

func TestCompilerMaxDepth(t *testing.T) {
	c := tjv.NewCompiler(tjv.WithMaxDepth(2))
	defer c.Close()
	_, err := c.Compile([]any{"-type", "array", "-items", []any{"-type", "array", "-items", []any{"-type", "string"}}})
	assert.EqualError(t, err, "schema nesting exceeds the maximum depth of 2")

	s, err := c.Compile([]any{"-type", "json"})
	require.NoError(t, err)
	_, err = s.Validate(context.Background(), `[[1]]`)
	assert.NoError(t, err)
	_, err = s.Validate(context.Background(), `[[[1]]]`)
	assert.EqualError(t, err, "Error while validating data: should be json")
}

func TestSharedPatternCache(t *testing.T) {
	cache := tjv.NewPatternCache()
	defer cache.Close()
	a := tjv.NewCompiler(tjv.WithPatternCache(cache))
	b := tjv.NewCompiler(tjv.WithPatternCache(cache))

	sa, err := a.Compile([]any{"-type", "uuid"})
	require.NoError(t, err)
	a.Close()
	sb, err := b.Compile([]any{"-type", "uuid"})
	require.NoError(t, err, "closing a compiler leaves a shared cache open")
	assert.Equal(t, 1, cache.Len())

	ctx := context.Background()
	assert.True(t, sa.Is(ctx, "123e4567-e89b-12d3-a456-426614174000"))
	assert.False(t, sb.Is(ctx, "123e4567"))
}

func TestCompilerConcurrentUse(t *testing.T) {
	c := tjv.NewCompiler()
	defer c.Close()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Compile([]any{"-type", "object", "-properties", "{h -type hostname -required}"})
			if err != nil {
				errs <- err
				return
			}
			_, err = s.Validate(context.Background(), map[string]any{"h": "example.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestJSONSchema(t *testing.T) {
	s := userSchema(t)
	js, err := s.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", js.Type)
	assert.Equal(t, []string{"name"}, js.Required)
	assert.Equal(t, "email", js.Properties["mail"].Format)
}
