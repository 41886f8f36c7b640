package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("order_id", "ORD-1").Info("order completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ORD-1", entry["order_id"])
	assert.Equal(t, "order completed", entry["msg"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "TEXT", &buf)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	logger.Info("dropped")
	assert.Empty(t, buf.String())
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New("loud", "json", &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}
