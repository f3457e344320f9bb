package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAddsEventAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.WarnObj("article scrape failed", "scrape_error", map[string]any{
		"url":   "https://k1news.ru/news/a",
		"index": 3,
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		entry := entries[0]
		assert.Equal(t, "article scrape failed", entry.Message)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		ctx := entry.ContextMap()
		assert.Equal(t, "scrape_error", ctx["event"])
		assert.Equal(t, "https://k1news.ru/news/a", ctx["url"])
		assert.EqualValues(t, 3, ctx["index"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestFromZapNil(t *testing.T) {
	assert.IsType(t, NopLogger{}, FromZap(nil))
}

func TestNewWritesToOutputPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvester.log")

	log, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)
	log.InfoObj("dataset validated", "dataset_ok", map[string]any{"articles": 2})
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"dataset validated"`)
	assert.Contains(t, string(data), `"event":"dataset_ok"`)
	assert.Contains(t, string(data), `"articles":2`)
}
