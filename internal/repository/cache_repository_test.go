package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "standings:job:1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "standings:job:1", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*:job:1"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}
