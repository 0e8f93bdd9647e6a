package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		Level    string
		Expected zapcore.Level
	}{
		{"Debug", "debug", zapcore.DebugLevel},
		{"Info with whitespace", " INFO ", zapcore.InfoLevel},
		{"Warning alias", "warning", zapcore.WarnLevel},
		{"Error", "error", zapcore.ErrorLevel},
		{"Numeric", "2", zapcore.DPanicLevel},
	}

	for _, aTestCase := range testCases {
		t.Run(aTestCase.Name, func(t *testing.T) {
			level, err := ParseLevel(aTestCase.Level)
			require.NoError(t, err)
			assert.Equal(t, aTestCase.Expected, level)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger, err := New("")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}
