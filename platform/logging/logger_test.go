package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_JSONAddsServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{
		ServiceName: "topic-seeder",
		Env:         "docker",
		Level:       "info",
		Output:      &buf,
	})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("visible")
	Sync(log)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "topic-seeder", line["service"])
	assert.Equal(t, "docker", line["env"])
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)
}
