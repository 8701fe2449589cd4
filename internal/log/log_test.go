package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)

	prevBase, prevSugar := baseLogger, log
	baseLogger = zap.New(core)
	log = baseLogger.Sugar()
	t.Cleanup(func() { baseLogger, log = prevBase, prevSugar })

	return logs
}

func TestStdLoggerLevels(t *testing.T) {
	logs := observe(t)

	StdLoggerAt(zapcore.WarnLevel).Print("SLOW SQL >= 1s")
	StdLogger().Print("http: TLS handshake error")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "SLOW SQL >= 1s", entries[0].Message)
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
