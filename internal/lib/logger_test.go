package lib

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerTo("warn", false, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerTo("debug", true, &buf)
	require.NoError(t, err)

	log.Named("orchestrator").Infow("tx sent", "hash", "0xabc")

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "tx sent", entry["M"])
	assert.Equal(t, "orchestrator", entry["N"])
	assert.Equal(t, "0xabc", entry["hash"])
}

func TestLoggerBadLevel(t *testing.T) {
	_, err := NewLoggerTo("loud", false, &bytes.Buffer{})
	assert.Error(t, err)
}
