package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelFatal, ParseLevel("FATAL"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestLoggerLevelFiltering(t *testing.T) {
	l := NewLogger(LevelError)
	assert.Equal(t, LevelError, l.level)

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.level)
}

func TestGetLoggerCreatesDefault(t *testing.T) {
	globalLogger = nil
	l := GetLogger()
	assert.NotNil(t, l)
	assert.Equal(t, LevelInfo, l.level)
}
