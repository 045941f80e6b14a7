package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

type settings struct {
	level  string
	format string
}

func (s settings) GetLogLevel() string  { return s.level }
func (s settings) GetLogFormat() string { return s.format }

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, logging.ParseLevel("debug"))
	require.Equal(t, zerolog.WarnLevel, logging.ParseLevel("warning"))
	require.Equal(t, zerolog.ErrorLevel, logging.ParseLevel("error"))
	require.Equal(t, zerolog.Disabled, logging.ParseLevel("off"))
	require.Equal(t, zerolog.InfoLevel, logging.ParseLevel("verbose"))
}

func TestInitJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	logging.InitWithWriter(settings{level: "info", format: "json"}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("route", "authenticated").Msg("route decided")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "route decided", entry["message"])
	require.Equal(t, "authenticated", entry["route"])
}
