package lib

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		level    int32
		log      func(l LoggerI)
		expected string
	}{
		{
			name:     "info at info",
			detail:   "a line at the configured level is written",
			level:    InfoLevel,
			log:      func(l LoggerI) { l.Infof("%s %s", "arg1", "arg2") },
			expected: "INFO: arg1 arg2",
		},
		{
			name:   "debug at info",
			detail: "a line below the configured level is dropped",
			level:  InfoLevel,
			log:    func(l LoggerI) { l.Debug("hidden") },
		},
		{
			name:     "error at warn",
			detail:   "a line above the configured level is written",
			level:    WarnLevel,
			log:      func(l LoggerI) { l.Errorf("failed %d", 1) },
			expected: "ERROR: failed 1",
		},
		{
			name:     "print ignores level",
			detail:   "print has no level",
			level:    ErrorLevel,
			log:      func(l LoggerI) { l.Print("plain") },
			expected: "plain",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			test.log(NewLogger(LoggerConfig{Level: test.level, Out: buf}))
			if test.expected == "" {
				require.Empty(t, buf.String())
				return
			}
			require.Contains(t, buf.String(), test.expected)
		})
	}
}

func TestLoggerWithPrefix(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger(LoggerConfig{Level: InfoLevel, Out: buf})
	// prefixes nest and keep the parent's level
	l.WithPrefix("controller").WithPrefix("req-1").Info("committed")
	l.WithPrefix("rpc").Debug("hidden")
	got := buf.String()
	require.Contains(t, got, "[controller/req-1]")
	require.Contains(t, got, "committed")
	require.NotContains(t, got, "hidden")
	require.Equal(t, 1, strings.Count(got, "\n"))
}

func TestNewLoggerFile(t *testing.T) {
	dataDir := t.TempDir()
	NewLogger(LoggerConfig{Level: InfoLevel}, dataDir).Info("to the file")
	bz, err := os.ReadFile(filepath.Join(dataDir, LogDirectory, LogFileName))
	require.NoError(t, err)
	require.Contains(t, string(bz), "to the file")
}

func TestNewNullLogger(t *testing.T) {
	l, ok := NewNullLogger().(*Logger)
	require.True(t, ok)
	require.Equal(t, DebugLevel, l.config.Level)
	require.Empty(t, l.prefix)
}
