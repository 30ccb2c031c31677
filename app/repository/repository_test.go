package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/kycbot/app/models"
	"github.com/m3rciful/kycbot/app/repository/testutil"
)

func TestUserRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("ensure keeps the first record", func(t *testing.T) {
		require.NoError(t, repo.Ensure(ctx, models.User{UserID: 1, Username: "first"}))
		require.NoError(t, repo.Ensure(ctx, models.User{UserID: 1, Username: "second"}))
		u, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "first", u.Username)
	})

	t.Run("touch refreshes names", func(t *testing.T) {
		require.NoError(t, repo.Touch(ctx, models.User{UserID: 1, Username: "renamed", FirstName: "R"}))
		u, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "renamed", u.Username)
		assert.Equal(t, "R", u.FirstName)
	})

	t.Run("unknown user", func(t *testing.T) {
		u, err := repo.Get(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("ids and counts", func(t *testing.T) {
		require.NoError(t, repo.Touch(ctx, models.User{UserID: 2}))
		require.NoError(t, repo.Touch(ctx, models.User{UserID: 3}))

		ids, err := repo.AllIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{1, 2, 3}, ids)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		today, err := repo.CountSince(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, today)

		future, err := repo.CountSince(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, future)
	})
}

func TestLeaderboardRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Upsert(ctx, models.LeaderboardEntry{
			UserID:      int64(i + 1),
			Username:    fmt.Sprintf("user%d", i+1),
			Phone:       fmt.Sprintf("+2567000000%02d", i),
			ActivatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("later activation overwrites", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, models.LeaderboardEntry{
			UserID: 1, Username: "user1", Phone: "+999", ActivatedAt: base.Add(time.Hour),
		}))
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 12, n)
	})

	t.Run("top is bounded and newest first", func(t *testing.T) {
		top, err := repo.Top(ctx, 10)
		require.NoError(t, err)
		require.Len(t, top, 10)
		assert.Equal(t, int64(1), top[0].UserID)
		assert.Equal(t, "+999", top[0].Phone)
		for i := 1; i < len(top); i++ {
			assert.False(t, top[i].ActivatedAt.After(top[i-1].ActivatedAt))
		}

		none, err := repo.Top(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("count since", func(t *testing.T) {
		n, err := repo.CountSince(ctx, base.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("reset empties the table", func(t *testing.T) {
		removed, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12), removed)
		top, err := repo.Top(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, top)
	})
}

func TestLeaderboardConcurrentUpsertSingleEntry(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Upsert(ctx, models.LeaderboardEntry{
				UserID: 77, Phone: fmt.Sprintf("+%d", i), ActivatedAt: time.Now(),
			}))
		}(i)
	}
	wg.Wait()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAdminRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAdminRepository(testDB.DB)
	ctx := context.Background()

	seeded, err := repo.SeedIfEmpty(ctx, []int64{10, 11, 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), seeded)

	again, err := repo.SeedIfEmpty(ctx, []int64{12})
	require.NoError(t, err)
	assert.Zero(t, again)

	ok, err := repo.Exists(ctx, 12)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Add(ctx, 12))
	require.NoError(t, repo.Add(ctx, 12))

	ok, err = repo.Exists(ctx, 12)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
