package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
)

func TestServicePrefix(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
	}{
		{"Solicitud de crédito", "S"},
		{"reembolsos", "R"},
		{"  Aclaraciones  ", "A"},
		{"Électronique", "É"},
		{"ñandú express", "Ñ"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		svc := &Service{Name: tc.name}
		assert.Equal(t, tc.prefix, svc.Prefix(), "name %q", tc.name)
	}
}

func TestInMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	cat := NewInMemory()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	svc := &Service{ID: id.NewServiceID(), Name: "Reembolsos", CreatedAt: now}
	branch := &Branch{ID: id.NewBranchID(), Name: "Sucursal Centro", Code: "SC01", CreatedAt: now}
	cat.PutService(svc)
	cat.PutBranch(branch)

	t.Run("finds known entries", func(t *testing.T) {
		found, err := cat.FindService(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Reembolsos", found.Name)

		foundBranch, err := cat.FindBranch(ctx, branch.ID)
		require.NoError(t, err)
		assert.Equal(t, "SC01", foundBranch.Code)
	})

	t.Run("unknown ids yield ErrNotFound", func(t *testing.T) {
		_, err := cat.FindService(ctx, id.NewServiceID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		_, err = cat.FindBranch(ctx, id.NewBranchID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("listings preserve insertion order", func(t *testing.T) {
		second := &Service{ID: id.NewServiceID(), Name: "Aclaraciones", CreatedAt: now}
		cat.PutService(second)

		services, err := cat.ListServices(ctx)
		require.NoError(t, err)
		require.Len(t, services, 2)
		assert.Equal(t, svc.ID, services[0].ID)
		assert.Equal(t, second.ID, services[1].ID)
	})
}
