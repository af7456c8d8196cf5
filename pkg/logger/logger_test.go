package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gunnhildr/library-api/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Sink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.log")
	log, err := logger.NewLogger(logger.Log{LogLevel: zapcore.InfoLevel, Sink: path}, "books")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("book created", zap.Int("id", 7))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"logger":"books"`)
	require.Contains(t, string(data), `"msg":"book created"`)
	require.Contains(t, string(data), `"id":7`)
	require.NotContains(t, string(data), "hidden")
}

func TestNewLogger_BadSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "books.log")
	log, err := logger.NewLogger(logger.Log{LogLevel: zapcore.InfoLevel, Sink: path}, "books")
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
	require.Nil(t, log)
}

func TestNewLogger_Stderr(t *testing.T) {
	log, err := logger.NewLogger(logger.Log{LogLevel: zapcore.InfoLevel}, "books")
	require.NoError(t, err)
	require.NotNil(t, log)
}
