package logging_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/groundworks-go/internal/adapters/logging"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/config"
)

func TestLogrusLogger_JSONLevelsAndFields(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	logger, closer, err := logging.NewFromConfig(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, &out, io.Discard)
	require.NoError(t, err)
	defer closer.Close()

	// Act
	logger.Log("DEBUG", "hidden", nil)
	logger.Log("WARNING", "job on hold", map[string]interface{}{"workshop_id": "ws-1", "job": "hab-1"})

	// Assert
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "job on hold", entry["msg"])
	assert.Equal(t, "ws-1", entry["workshop_id"])
	assert.Equal(t, "hab-1", entry["job"])
}

func TestLogrusLogger_WithValuesAndText(t *testing.T) {
	// Arrange
	var errOut bytes.Buffer
	logger, _, err := logging.NewFromConfig(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}, io.Discard, &errOut)
	require.NoError(t, err)

	// Act
	logger.WithValues(map[string]interface{}{"component": "daemon"}).Log("DEBUG", "tick", nil)

	// Assert
	assert.Contains(t, errOut.String(), "level=debug")
	assert.Contains(t, errOut.String(), "component=daemon")
	assert.Contains(t, errOut.String(), "msg=tick")
}

func TestLogrusLogger_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "groundworks.log")
	logger, closer, err := logging.NewFromConfig(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: path}, io.Discard, io.Discard)
	require.NoError(t, err)

	// Act
	logger.Infof("started %d workshops", 2)
	require.NoError(t, closer.Close())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started 2 workshops")
}

func TestNewFromConfig_InvalidLevel(t *testing.T) {
	// Act
	_, _, err := logging.NewFromConfig(config.LoggingConfig{Level: "loud", Format: "text"}, io.Discard, io.Discard)

	// Assert
	assert.Error(t, err)
}

func TestNewFromConfig_StaticFields(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	cfg := config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
		Fields: map[string]string{"site": "north-ridge"},
	}
	logger, _, err := logging.NewFromConfig(cfg, &out, io.Discard)
	require.NoError(t, err)

	// Act
	logger.WithValues(map[string]interface{}{"workshop_id": "ws-1"}).Infof("queue drained")

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "north-ridge", entry["site"])
	assert.Equal(t, "ws-1", entry["workshop_id"])
}
