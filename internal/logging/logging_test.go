package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv/internal/logging"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logging.New(slog.LevelInfo, logging.FormatJSON, buf)
		log.Info("hello", logging.Path("a.b"))
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "a.b", entry["path"])
	})

	t.Run("text honours level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logging.New(slog.LevelWarn, logging.FormatText, buf)
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestParse(t *testing.T) {
	l, err := logging.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)

	f, err := logging.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, logging.FormatJSON, f)
	f, err = logging.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, logging.FormatText, f)
	_, err = logging.ParseFormat("xml")
	assert.Error(t, err)
}

func TestAttrs(t *testing.T) {
	assert.True(t, logging.Error(nil).Equal(slog.Attr{}))
	err := errors.New("boom")
	assert.Equal(t, err, logging.Error(err).Value.Any())
	assert.Equal(t, "kind", logging.Kind("string").Key)
	assert.Equal(t, int64(3), logging.Worker(3).Value.Int64())
	assert.NotNil(t, logging.OrDiscard(nil))
}
