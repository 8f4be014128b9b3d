package erasite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEraCacheServesUntilInvalidated(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	cache := NewEraCache(s, time.Hour)

	createTestEra(t, s, "First", "Аркады")
	eras, err := cache.ListEras(ctx, "")
	require.NoError(t, err)
	require.Len(t, eras, 1)

	createTestEra(t, s, "Second")
	eras, err = cache.ListEras(ctx, "")
	require.NoError(t, err)
	assert.Len(t, eras, 1, "cached list until invalidated")

	cache.Invalidate()
	eras, err = cache.ListEras(ctx, "")
	require.NoError(t, err)
	assert.Len(t, eras, 2)
}

func TestEraCacheZeroTTLAlwaysReloads(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	cache := NewEraCache(s, 0)

	eras, err := cache.ListEras(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, eras)

	createTestEra(t, s, "Fresh")
	eras, err = cache.ListEras(ctx, "")
	require.NoError(t, err)
	assert.Len(t, eras, 1)
}

func TestEraCacheFiltersByTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	cache := NewEraCache(s, time.Hour)

	createTestEra(t, s, "Arcade", "Аркады")
	createTestEra(t, s, "Modern", "3D", "Онлайн")

	eras, err := cache.ListEras(ctx, " онлайн ")
	require.NoError(t, err)
	require.Len(t, eras, 1)
	assert.Equal(t, "Modern", eras[0].Title)

	eras, err = cache.ListEras(ctx, "VR")
	require.NoError(t, err)
	assert.NotNil(t, eras)
	assert.Empty(t, eras)

	tags, err := cache.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}
