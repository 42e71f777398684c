package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeWritesFileCores(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "bot.log")
	errorFile := filepath.Join(dir, "error.log")

	require.NoError(t, Initialize(Configuration{
		LogFile:   logFile,
		ErrorFile: errorFile,
		Level:     "info",
	}))
	t.Cleanup(func() { log = zap.NewNop() })

	Debug("hidden debug line")
	Info("ticket issued", zap.String("ticket", "LB-ABCD-EFGH"))
	Error("balance check failed")
	Sync()

	all, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(all), `"message":"ticket issued"`)
	assert.Contains(t, string(all), `"ticket":"LB-ABCD-EFGH"`)
	assert.NotContains(t, string(all), "hidden debug line")

	errs, err := os.ReadFile(errorFile)
	require.NoError(t, err)
	assert.Contains(t, string(errs), "balance check failed")
	assert.NotContains(t, string(errs), "ticket issued")
}

func TestInitializeUnknownLevelFallsBackToInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "bot.log")
	require.NoError(t, Initialize(Configuration{LogFile: logFile, Level: "chatty"}))
	t.Cleanup(func() { log = zap.NewNop() })

	Debug("debug line")
	Warn("warn line")
	Sync()

	all, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(all), "debug line")
	assert.Contains(t, string(all), "warn line")
}

func TestInitializeBadPath(t *testing.T) {
	err := Initialize(Configuration{LogFile: filepath.Join(t.TempDir(), "missing", "bot.log")})
	assert.Error(t, err)
}
