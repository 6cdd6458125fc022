package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"tablebook/config"
	"tablebook/shared/constant"
	"tablebook/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	previous := logger.Output
	buffer := &bytes.Buffer{}
	logger.Output = buffer

	t.Cleanup(func() {
		logger.Output = previous
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	return buffer
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			capture(t)
			logger.InitLogger()

			cfg := &config.Config{}
			cfg.Server.Env = constant.ServerEnvDevelopment
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestJSONOutsideDevelopment(t *testing.T) {
	buffer := capture(t)
	logger.InitLogger()

	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.Server.LogLevel = "info"
	cfg.App.Name = "tablebook"

	logger.SetLogLevel(cfg)
	log.Info().Str("booking", "b1").Msg("booking created")

	line := strings.TrimSpace(buffer.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "tablebook", entry["app"])
	assert.Equal(t, "b1", entry["booking"])
	assert.Equal(t, "booking created", entry["message"])
}

func TestErrorWithStack(t *testing.T) {
	buffer := capture(t)
	logger.InitLogger()

	logger.ErrorWithStack(errors.New("slot lock timed out"))

	assert.Contains(t, buffer.String(), "slot lock timed out")
	assert.Contains(t, buffer.String(), "logger_test.go")
}
