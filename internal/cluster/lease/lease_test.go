package lease

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrNoLeaseAvailableMessage(t *testing.T) {
	err := &ErrNoLeaseAvailable{AttemptedCount: 65536}
	require.Contains(t, err.Error(), "65536")
}

func TestLeaseIdAccessor(t *testing.T) {
	l := &Lease{id: 7}
	require.Equal(t, 7, l.Id())
}
