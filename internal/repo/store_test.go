package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
	"github.com/struchkova/konakovo-backend/testutil"
)

// newTestStore binds a Store to a test transaction. Store.InTx then runs
// inside a savepoint, and everything is rolled back when the test finishes.
func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(testutil.NewTx(t))
}

func TestStore_InTx_Commits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(r repo.Repos) error {
		_, err := r.Hero.Create(ctx, domain.HeroBlock{Title: "Лиза", IsActive: true})
		return err
	})
	require.NoError(t, err)

	heroes, err := s.Hero.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, heroes, 1)
	assert.Equal(t, "Лиза", heroes[0].Title)
}

func TestStore_InTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(r repo.Repos) error {
		_, err := r.Hero.Create(ctx, domain.HeroBlock{Title: "Временный", IsActive: true})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	heroes, err := s.Hero.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, heroes, "insert inside the failed transaction must be discarded")
}
