package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("account", "Giro").Msg("currency assumed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "currency assumed")
	assert.Contains(t, out, "account=Giro")
	assert.NotContains(t, out, "\x1b[", "buffers get no color codes")
}

func TestNew_DefaultLevel(t *testing.T) {
	log, err := New(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Info().Msg("test message")
	assert.Contains(t, buf.String(), `"message":"test message"`)
}

func TestOpen(t *testing.T) {
	var buf bytes.Buffer
	log, err := Open(&buf, "warn", "json")
	require.NoError(t, err)
	log.Info().Msg("hidden")
	log.Warn().Str("file", "januar.csv").Msg("unrecognized format")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"file":"januar.csv"`)

	buf.Reset()
	log, err = Open(&buf, "", "console")
	require.NoError(t, err)
	log.Info().Msg("import done")
	assert.NotContains(t, buf.String(), `"message"`)
	assert.Contains(t, buf.String(), "import done")

	_, err = Open(&buf, "info", "xml")
	assert.ErrorContains(t, err, `unknown log format "xml"`)
	_, err = Open(&buf, "loud", "json")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")
	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
