package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json outside dev", func(t *testing.T) {
		var buf bytes.Buffer
		require.Equal(t, zerolog.WarnLevel, SetupWriter(&buf, "PROD", "WARN"))

		log.Info().Msg("dropped")
		log.Warn().Str("k", "v").Msg("kept")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "kept", line["message"])
		require.Equal(t, "v", line["k"])
		require.Contains(t, line, "time")
	})

	t.Run("console in dev", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWriter(&buf, "dev", "debug")
		log.Debug().Msg("hello")
		require.Contains(t, buf.String(), "hello")
		require.False(t, json.Valid(buf.Bytes()))
	})

	t.Run("bad level", func(t *testing.T) {
		var buf bytes.Buffer
		require.Equal(t, zerolog.InfoLevel, SetupWriter(&buf, "PROD", "loud"))
		require.Equal(t, zerolog.InfoLevel, SetupWriter(&buf, "PROD", ""))
	})
}
