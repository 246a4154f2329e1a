package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_access "github.com/hsaito/retentio/internal/mocks/access"
)

func TestResolver_AccessibleContainerIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("regular user gets granted containers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_access.NewMockRepository(ctrl)
		repo.EXPECT().UserRole(gomock.Any(), int64(1)).Return("member", nil)
		repo.EXPECT().GrantedContainerIDs(gomock.Any(), int64(1)).Return([]int64{3, 7}, nil)

		resolver := NewResolver(repo)
		got, err := resolver.AccessibleContainerIDs(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, got)
	})

	t.Run("admin sees every container", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_access.NewMockRepository(ctrl)
		repo.EXPECT().UserRole(gomock.Any(), int64(2)).Return(RoleAdmin, nil)
		repo.EXPECT().AllContainerIDs(gomock.Any()).Return([]int64{1, 2, 3}, nil)

		resolver := NewResolver(repo)
		got, err := resolver.AccessibleContainerIDs(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, got)
	})

	t.Run("memoizes per resolver lifetime", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_access.NewMockRepository(ctrl)
		// Exactly one round of queries despite three calls.
		repo.EXPECT().UserRole(gomock.Any(), int64(1)).Return("member", nil).Times(1)
		repo.EXPECT().GrantedContainerIDs(gomock.Any(), int64(1)).Return([]int64{5}, nil).Times(1)

		resolver := NewResolver(repo)
		for i := 0; i < 3; i++ {
			got, err := resolver.AccessibleContainerIDs(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []int64{5}, got)
		}
	})

	t.Run("unknown user gets an empty set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_access.NewMockRepository(ctrl)
		repo.EXPECT().UserRole(gomock.Any(), int64(99)).Return("", nil)
		repo.EXPECT().GrantedContainerIDs(gomock.Any(), int64(99)).Return(nil, nil)

		resolver := NewResolver(repo)
		got, err := resolver.AccessibleContainerIDs(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestResolver_CanAccess(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	repo := mock_access.NewMockRepository(ctrl)
	repo.EXPECT().UserRole(gomock.Any(), int64(1)).Return("member", nil).Times(1)
	repo.EXPECT().GrantedContainerIDs(gomock.Any(), int64(1)).Return([]int64{3, 7}, nil).Times(1)

	resolver := NewResolver(repo)

	ok, err := resolver.CanAccess(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.CanAccess(ctx, 1, 8)
	require.NoError(t, err)
	assert.False(t, ok)
}
