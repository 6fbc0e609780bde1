package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSONWithComponent(t *testing.T) {
	Init("debug", "json")
	var buf bytes.Buffer
	Log.SetOutput(&buf)
	t.Cleanup(Discard)

	Component("scene").WithField("walls", 3).Debug("template loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "scene", line["component"])
	assert.Equal(t, "template loaded", line["msg"])
	assert.Equal(t, float64(3), line["walls"])
}

func TestInitFallsBackToInfo(t *testing.T) {
	Init("loud", "text")
	t.Cleanup(Discard)

	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	_, ok := Log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
