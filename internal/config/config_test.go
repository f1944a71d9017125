package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4000, c.TelnetPort)
	require.Equal(t, "sqlite", c.DBType)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELNET_PORT=5555\nDB_TYPE=postgres\nMAX_PLAYERS=10\n"), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 5555, c.TelnetPort)
	require.Equal(t, "postgres", c.DBType)
	require.Equal(t, 10, c.MaxPlayers)
}

func TestLoadFileRejectsBudgetNotLessThanTick(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ENGINE_TICK_MILLIS=50\nINBOUND_BUDGET_MS=50\n"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileRejectsInvalidDbType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_TYPE=mysql\n"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestWebListenAddressDefaultsToAllInterfaces(t *testing.T) {
	c := defaultConfig
	require.Equal(t, "0.0.0.0:8080", c.WebListenAddress())
}
