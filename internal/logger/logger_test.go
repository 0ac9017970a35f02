package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{name: "json config", config: &Config{Level: "debug", Format: "json"}},
		{name: "console config", config: &Config{Level: "info", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, New(tt.config))
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "info", Format: "json", Output: buf})

	log.Info("scan started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "scan started", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "info", Format: "json", Output: buf})

	child := log.With().
		Str("database", "payments").
		Int("tables", 12).
		Logger()

	child.Info("scan complete")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "payments", entry["database"])
	assert.Equal(t, float64(12), entry["tables"])
	assert.Equal(t, "scan complete", entry["message"])
}

func TestLogger_ErrorWith(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "error", Format: "json", Output: buf})

	log.ErrorWith("catalog read failed", errors.New("table dropped mid-scan"), map[string]interface{}{
		"table": "orders",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "catalog read failed", entry["message"])
	assert.Equal(t, "table dropped mid-scan", entry["error"])
	assert.Equal(t, "orders", entry["table"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: "warn", Format: "json", Output: buf})

	log.Info("suppressed")
	assert.Empty(t, buf.Bytes())

	log.Warn("kept")
	assert.NotEmpty(t, buf.Bytes())
}
