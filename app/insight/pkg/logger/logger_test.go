package logger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "venue lookup failed",
		Data:    logrus.Fields{"report": "r1", "category": "STEM"},
	}

	out, err := (&LineFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-05-01 08:30:00] [WARN] [] venue lookup failed category=STEM report=r1\n", string(out))
}

func TestInitLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "insight.log")
	require.NoError(t, InitLogger("debug", file))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.FileExists(t, file)

	require.NoError(t, InitLogger("not-a-level", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
