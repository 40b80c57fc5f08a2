package allocator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "turnero/pkg/domain-errors"
)

type stubSequences struct {
	max map[string]int
	err error
}

func (s *stubSequences) MaxSequenceForPrefix(_ context.Context, prefix string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.max[prefix], nil
}

func TestNext(t *testing.T) {
	ctx := context.Background()

	t.Run("starts each prefix at 001", func(t *testing.T) {
		a := New(&stubSequences{max: map[string]int{}})
		number, err := a.Next(ctx, "S")
		require.NoError(t, err)
		assert.Equal(t, "S001", number)
	})

	t.Run("continues from the highest issued sequence", func(t *testing.T) {
		a := New(&stubSequences{max: map[string]int{"S": 41}})
		number, err := a.Next(ctx, "S")
		require.NoError(t, err)
		assert.Equal(t, "S042", number)
	})

	t.Run("prefixes do not share sequences", func(t *testing.T) {
		a := New(&stubSequences{max: map[string]int{"S": 7, "R": 2}})

		number, err := a.Next(ctx, "R")
		require.NoError(t, err)
		assert.Equal(t, "R003", number)
	})

	t.Run("grows past three digits without wrapping", func(t *testing.T) {
		a := New(&stubSequences{max: map[string]int{"S": 999}})
		number, err := a.Next(ctx, "S")
		require.NoError(t, err)
		assert.Equal(t, "S1000", number)
	})

	t.Run("rejects an empty prefix", func(t *testing.T) {
		a := New(&stubSequences{max: map[string]int{}})
		_, err := a.Next(ctx, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("wraps store failures as internal", func(t *testing.T) {
		a := New(&stubSequences{err: errors.New("connection reset")})
		_, err := a.Next(ctx, "S")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "S001", Format("S", 1))
	assert.Equal(t, "S010", Format("S", 10))
	assert.Equal(t, "S100", Format("S", 100))
	assert.Equal(t, "S1000", Format("S", 1000))
	assert.Equal(t, "AC014", Format("AC", 14))
}
