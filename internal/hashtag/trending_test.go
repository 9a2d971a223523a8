package hashtag

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTrendingDB creates an in-memory SQLite database with a posts table.
// The schema is written by hand because AutoMigrate emits PostgreSQL-specific
// DDL (text[] columns) that SQLite rejects.
func setupTrendingDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE posts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			text TEXT NOT NULL,
			image_url TEXT,
			category TEXT NOT NULL DEFAULT 'Other',
			tags TEXT,
			like_count INTEGER DEFAULT 0,
			comment_count INTEGER DEFAULT 0,
			share_count INTEGER DEFAULT 0,
			save_count INTEGER DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	database.DB = db
	return db
}

func createTaggedPost(t *testing.T, db *gorm.DB, text string, age time.Duration) {
	post := models.Post{
		UserID:   "author-1",
		Text:     text,
		Category: models.CategoryOther,
		Tags:     models.StringArray(ExtractTags(text)),
	}
	require.NoError(t, db.Create(&post).Error)
	createdAt := time.Now().Add(-age)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("created_at", createdAt).Error)
}

func TestTrendingRanksByCount(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 7, time.Minute)

	// #go in three posts, #rust in two, #zig in one
	for i := 0; i < 3; i++ {
		createTaggedPost(t, db, fmt.Sprintf("post %d about #go", i), time.Hour)
	}
	for i := 0; i < 2; i++ {
		createTaggedPost(t, db, fmt.Sprintf("post %d about #rust", i), time.Hour)
	}
	createTaggedPost(t, db, "one post about #zig", time.Hour)

	ranking, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, ranking, 3)
	assert.Equal(t, TagCount{Tag: "#go", Count: 3}, ranking[0])
	assert.Equal(t, TagCount{Tag: "#rust", Count: 2}, ranking[1])
	assert.Equal(t, TagCount{Tag: "#zig", Count: 1}, ranking[2])
}

func TestTrendingTiesBreakLexicographically(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 7, time.Minute)

	createTaggedPost(t, db, "about #beta", time.Hour)
	createTaggedPost(t, db, "about #alpha", time.Hour)
	createTaggedPost(t, db, "about #gamma", time.Hour)

	ranking, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, ranking, 3)
	assert.Equal(t, "#alpha", ranking[0].Tag)
	assert.Equal(t, "#beta", ranking[1].Tag)
	assert.Equal(t, "#gamma", ranking[2].Tag)
}

func TestTrendingIgnoresPostsOutsideWindow(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 7, time.Minute)

	createTaggedPost(t, db, "fresh post about #recent", time.Hour)
	createTaggedPost(t, db, "stale post about #ancient", 10*24*time.Hour)

	ranking, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, ranking, 1)
	assert.Equal(t, "#recent", ranking[0].Tag)
}

func TestTrendingZeroWindowRanksAllTime(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 0, time.Minute)

	createTaggedPost(t, db, "fresh post about #recent", time.Hour)
	createTaggedPost(t, db, "old post about #ancient", 30*24*time.Hour)

	ranking, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, ranking, 2)
	assert.Equal(t, "#ancient", ranking[0].Tag)
	assert.Equal(t, "#recent", ranking[1].Tag)
}

func TestTrendingRespectsLimit(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 7, time.Minute)

	for _, tag := range []string{"#a", "#b", "#c", "#d", "#e"} {
		createTaggedPost(t, db, "post about "+tag, time.Hour)
	}

	ranking, err := svc.Trending(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, ranking, 2)
}

func TestTrendingCacheKeyedByWindowOnly(t *testing.T) {
	// one cache entry per window regardless of requested limit, so a
	// single Invalidate clears every limit a caller ever asked for
	assert.Equal(t, "trending:hashtags:7", NewService(nil, 7, time.Minute).cacheKey())
	assert.Equal(t, "trending:hashtags:0", NewService(nil, 0, time.Minute).cacheKey())
}

func TestTrendingLimitSlicesSharedRanking(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 7, time.Minute)

	for i := 0; i < 3; i++ {
		createTaggedPost(t, db, fmt.Sprintf("post %d about #go", i), time.Hour)
	}
	for i := 0; i < 2; i++ {
		createTaggedPost(t, db, fmt.Sprintf("post %d about #rust", i), time.Hour)
	}
	createTaggedPost(t, db, "one post about #zig", time.Hour)

	full, err := svc.Trending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, full, 3)

	top, err := svc.Trending(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, full[:2], top)
}

func TestTrendingEmptyWhenNoTaggedPosts(t *testing.T) {
	db := setupTrendingDB(t)
	svc := NewService(nil, 7, time.Minute)

	createTaggedPost(t, db, "a post with no hashtags", time.Hour)

	ranking, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, ranking)
}
