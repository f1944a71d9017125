package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuildsConsoleLogger(t *testing.T) {
	l, err := New("console")
	require.NoError(t, err)
	require.NotNil(t, l)
	defer l.Sync()
}

func TestNewBuildsProductionLoggerByDefault(t *testing.T) {
	l, err := New("json")
	require.NoError(t, err)
	require.NotNil(t, l)
	defer l.Sync()
}

func TestSessionLoggerTagsSessionField(t *testing.T) {
	base, err := New("console")
	require.NoError(t, err)
	defer base.Sync()
	l := SessionLogger(base, 42)
	require.NotNil(t, l)
}
