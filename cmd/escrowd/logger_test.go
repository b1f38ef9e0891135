package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escrowd.log")
	logger, closer, err := NewLogger(&Config{LogLevel: "info", LogFile: path})
	require.NoError(t, err)

	logger.Debug("hidden message")
	logger.Info("visible message", "height", 3)
	require.NoError(t, closer.Close())

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "visible message")
	assert.Contains(t, string(raw), "module=escrowd")
	assert.NotContains(t, string(raw), "hidden message")
}

func TestLoggerLevels(t *testing.T) {
	_, closer, err := NewLogger(&Config{LogLevel: "none"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())

	_, _, err = NewLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}
