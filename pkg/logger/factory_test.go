package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotagate/quotagate/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format with service attr", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: "info", Format: logger.FormatJSON, Service: "quotagate"}, &buf)

		log.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "quotagate", record["service"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: "warn", Format: logger.FormatJSON}, &buf)

		log.Info("dropped")
		assert.Zero(t, buf.Len())

		log.Warn("kept")
		assert.NotZero(t, buf.Len())
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: "verbose", Format: logger.FormatText}, &buf)

		log.Debug("dropped")
		assert.Zero(t, buf.Len())

		log.Info("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}
