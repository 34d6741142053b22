package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-social-auth/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logging.Setup(logging.Options{Level: "debug", Service: "social-auth", Env: "DEV", Output: &buf})
	log.Debug().Str("user_id", "user-1").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["message"])
	require.Equal(t, "debug", line["level"])
	require.Equal(t, "social-auth", line["service"])
	require.Equal(t, "user-1", line["user_id"])
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logging.Setup(logging.Options{Level: "chatty", Output: &buf})
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	log.Debug().Msg("dropped")
	require.Zero(t, buf.Len())
}
