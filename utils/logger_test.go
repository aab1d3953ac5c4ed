package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"production defaults to info", "production", "", zapcore.InfoLevel, zapcore.DebugLevel},
		{"development defaults to debug", "development", "", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"level overrides production", "production", "warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"unparseable level is ignored", "production", "loud", zapcore.InfoLevel, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.muted))
		})
	}
}

func TestGetLogger_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]any, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetLogger()
		}(i)
	}
	wg.Wait()
	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}
