package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerCarriesServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&Config{AppEnv: "production", LogFormat: "json"}, &buf)

	logger.Info("boot")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "meridian", line["service"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "boot", line["msg"])
}

func TestLoggerDefaultsToTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&Config{AppEnv: "development"}, &buf)

	logger.Info("boot")

	out := buf.String()
	assert.Contains(t, out, "service=meridian")
	assert.Contains(t, out, "env=development")
}
