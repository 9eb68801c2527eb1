package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	log := l.GetLogger("team-service")
	log.Info().Uint("member_id", 3).Msg("Member offboarded")

	out := buf.String()
	assert.Contains(t, out, `"component":"team-service"`)
	assert.Contains(t, out, `"member_id":3`)
	assert.Contains(t, out, `"message":"Member offboarded"`)
}

func TestNopDiscards(t *testing.T) {
	log := Nop().GetLogger("x")
	log.Error().Msg("dropped")
}

func TestSetLogOutputWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.log")
	l := New(false, path)

	log := l.GetLogger("test")
	log.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
