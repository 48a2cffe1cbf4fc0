package config_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv/config"
	"github.com/reoring/tjv/i18n"
	"github.com/reoring/tjv/internal/message"
)

func TestLoad_Defaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, config.Config{
		MaxDepth:  64,
		Workers:   4,
		LogLevel:  "warn",
		LogFormat: "text",
		Lang:      "en",
		Color:     config.ColorAuto,
	}, cfg)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TJV_MAX_DEPTH", "8")
	t.Setenv("TJV_WORKERS", "2")
	t.Setenv("TJV_LOG_LEVEL", "debug")
	t.Setenv("TJV_LOG_FORMAT", "json")
	t.Setenv("TJV_LANG", "ja")
	t.Setenv("TJV_COLOR", "never")

	var cfg config.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "ja", cfg.Lang)
	assert.Equal(t, config.ColorNever, cfg.Color)

	var buf bytes.Buffer
	cfg.Logger(&buf).Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		t.Setenv("TJV_WORKERS", "many")
		var cfg config.Config
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
	t.Run("range", func(t *testing.T) {
		t.Setenv("TJV_MAX_DEPTH", "0")
		t.Setenv("TJV_COLOR", "sometimes")
		var cfg config.Config
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "TJV_MAX_DEPTH")
		assert.Contains(t, err.Error(), "TJV_COLOR")
	})
	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, config.Load(nil), config.ErrNilPointer)
	})
}

func TestApply(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })
	config.Config{Lang: "ja"}.Apply()
	var b message.Builder
	b.Type("a", "integer")
	assert.Equal(t, "a integer である必要があります", b.Messages[0])
}

func TestMustLoad(t *testing.T) {
	t.Setenv("TJV_LOG_LEVEL", "loud")
	assert.Panics(t, func() { config.MustLoad() })
}
