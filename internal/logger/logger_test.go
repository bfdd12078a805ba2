package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	return entry
}

func TestNew_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := New("finkeeper", &buf)

	l.Info().Msg("hello")

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "finkeeper", entry["role"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, zerolog.TimestampFieldName)
	assert.Contains(t, entry["func"], "TestNew_Fields")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	parent := New("finkeeper", &buf)

	child := parent.WithComponent("vault")
	child.Info().Msg("child")
	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "vault", entry["component"])
	assert.Equal(t, "finkeeper", entry["role"])

	buf.Reset()
	parent.Info().Msg("parent")
	assert.NotContains(t, decodeEntry(t, buf.Bytes()), "component")
}

func TestFromContext_NotNil(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestFromContext_WithoutLoggerIsDisabled(t *testing.T) {
	l := FromContext(context.Background())

	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New("finkeeper", &buf).WithComponent("cli")
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "cli", entry["component"])
	assert.Equal(t, "from context", entry["message"])
}

func TestNewClientLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "finkeeper.log")

	l := NewClientLogger("client", path)
	l.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	entry := decodeEntry(t, data)
	assert.Equal(t, "client", entry["role"])
	assert.Equal(t, "to file", entry["message"])
}

func TestNewClientLogger_Fallback(t *testing.T) {
	assert.Equal(t, os.Stderr, openLogFile(""))

	// a regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	assert.Equal(t, os.Stderr, openLogFile(filepath.Join(blocker, "sub", "x.log")))

	require.NotNil(t, NewClientLogger("client", ""))
}
