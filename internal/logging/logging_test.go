package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func useObserver(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, recorded := observer.New(level)
	prevBase, prevSugar := baseLogger, sugar
	baseLogger = zap.New(core)
	sugar = baseLogger.Sugar()
	t.Cleanup(func() {
		baseLogger, sugar = prevBase, prevSugar
	})
	return recorded
}

func TestSugaredHelpers(t *testing.T) {
	recorded := useObserver(t, zapcore.InfoLevel)

	Debugf("hidden %d", 1)
	Infof("ratio %s", "6/5")
	Warnf("clipped %d samples", 3)
	Errorf("failed: %v", "boom")

	logs := recorded.All()
	require.Len(t, logs, 3)
	assert.Equal(t, "ratio 6/5", logs[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs[1].Level)
	assert.Equal(t, "clipped 3 samples", logs[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[2].Level)
}

func TestLoggerNamed(t *testing.T) {
	recorded := useObserver(t, zapcore.DebugLevel)

	Logger("resample").Debug("designed filter", zap.Int("taps", 361))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "resample", logs[0].LoggerName)
	assert.Equal(t, int64(361), logs[0].ContextMap()["taps"])
}

func TestInit(t *testing.T) {
	prevBase, prevSugar := baseLogger, sugar
	t.Cleanup(func() {
		baseLogger, sugar = prevBase, prevSugar
	})

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json_debug", Config{Level: "debug", Format: "json"}, false},
		{"console_warn", Config{Level: " WARN ", Format: "Console"}, false},
		{"bad_format", Config{Format: "xml"}, true},
		{"bad_level", Config{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestInitFromEnv(t *testing.T) {
	prevBase, prevSugar := baseLogger, sugar
	t.Cleanup(func() {
		baseLogger, sugar = prevBase, prevSugar
	})

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
	require.NoError(t, InitFromEnv())
	assert.False(t, baseLogger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, baseLogger.Core().Enabled(zapcore.ErrorLevel))

	t.Setenv("LOG_FORMAT", "yaml")
	require.Error(t, InitFromEnv())
}
