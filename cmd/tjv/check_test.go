package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/batch"
)

func TestReport(t *testing.T) {
	p := newPalette(false)
	var buf bytes.Buffer

	require.NoError(t, report(&buf, p, batch.Result{Name: "a.yaml"}, false))
	assert.Equal(t, "a.yaml: ok\n", buf.String())

	ve := &tjv.ValidationError{Data: []tjv.Diagnostic{
		{Keyword: tjv.KeywordType, DataPath: "n", Message: "should be integer"},
		{Keyword: tjv.KeywordType, Message: "should be object"},
	}}
	buf.Reset()
	require.NoError(t, report(&buf, p, batch.Result{Name: "b.json", Err: ve}, false))
	assert.Equal(t, "b.json: n should be integer\nb.json: should be object\n", buf.String())

	buf.Reset()
	require.NoError(t, report(&buf, p, batch.Result{Name: "b.json", Err: ve}, true))
	assert.Equal(t, `b.json: [{"keyword":"type","dataPath":"n","message":"should be integer"},{"keyword":"type","dataPath":"","message":"should be object"}]`+"\n", buf.String())

	boom := errors.New("boom")
	assert.ErrorIs(t, report(&buf, p, batch.Result{Name: "c", Err: boom}, false), boom)
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "x 1", newPalette(false).bad("x %d", 1))
	assert.Contains(t, newPalette(true).ok("ok"), "\x1b[")

	cfg := &MainConfig{Color: "never"}
	assert.Equal(t, "ok", cfg.colors(&bytes.Buffer{}).ok("ok"))
	cfg.Color = "always"
	assert.NotEqual(t, "ok", cfg.colors(&bytes.Buffer{}).ok("ok"))
}
