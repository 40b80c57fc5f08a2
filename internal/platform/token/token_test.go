package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "turnero/pkg/domain"
)

func TestIssueAndValidate(t *testing.T) {
	mgr := NewManager("test-key", time.Hour)
	counterID := id.NewCounterID()
	branchID := id.NewBranchID()
	now := time.Now()

	signed, err := mgr.Issue(counterID, branchID, now)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, counterID, claims.CounterID)
	assert.Equal(t, branchID, claims.BranchID)
}

func TestValidateRejections(t *testing.T) {
	mgr := NewManager("test-key", time.Hour)
	counterID := id.NewCounterID()
	branchID := id.NewBranchID()

	t.Run("expired token", func(t *testing.T) {
		signed, err := mgr.Issue(counterID, branchID, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		_, err = mgr.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewManager("other-key", time.Hour)
		signed, err := other.Issue(counterID, branchID, time.Now())
		require.NoError(t, err)

		_, err = mgr.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := mgr.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
