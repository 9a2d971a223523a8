package feed

import (
	"context"
	"testing"
	"time"

	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/hashtag"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupFeedDB creates an in-memory SQLite database with hand-written DDL
// (AutoMigrate emits PostgreSQL-specific column types that SQLite rejects).
func setupFeedDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			username TEXT NOT NULL,
			display_name TEXT NOT NULL,
			bio TEXT,
			password_hash TEXT,
			profile_picture_url TEXT,
			is_admin INTEGER DEFAULT 0,
			follower_count INTEGER DEFAULT 0,
			following_count INTEGER DEFAULT 0,
			post_count INTEGER DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE follows (
			id TEXT PRIMARY KEY,
			follower_id TEXT NOT NULL,
			followee_id TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE(follower_id, followee_id)
		)`,
		`CREATE TABLE posts (
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
		)`,
		`CREATE TABLE post_shares (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE(post_id, user_id)
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	database.DB = db
	return db
}

func createFeedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createFeedPost(t *testing.T, db *gorm.DB, author *models.User, text string, category models.Category, age time.Duration) *models.Post {
	post := &models.Post{
		UserID:   author.ID,
		Text:     text,
		Category: category,
		Tags:     models.StringArray(hashtag.ExtractTags(text)),
	}
	require.NoError(t, db.Create(post).Error)
	createdAt := time.Now().Add(-age)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

func TestTimelineIncludesOwnFollowedAndShared(t *testing.T) {
	db := setupFeedDB(t)

	me := createFeedUser(t, db, "reader")
	followee := createFeedUser(t, db, "followed")
	stranger := createFeedUser(t, db, "stranger")

	require.NoError(t, db.Create(&models.Follow{FollowerID: me.ID, FolloweeID: followee.ID}).Error)

	own := createFeedPost(t, db, me, "my own post", models.CategoryJournal, 4*time.Hour)
	followed := createFeedPost(t, db, followee, "a followed post", models.CategoryTechnology, 3*time.Hour)
	hidden := createFeedPost(t, db, stranger, "not in my feed", models.CategoryFun, 2*time.Hour)
	shared := createFeedPost(t, db, stranger, "a reshared post", models.CategoryFun, time.Hour)
	require.NoError(t, db.Create(&models.PostShare{PostID: shared.ID, UserID: me.ID}).Error)

	svc := NewService()
	resp, err := svc.GetTimeline(context.Background(), me.ID, "", 20, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		ids = append(ids, p.ID)
		assert.Equal(t, p.ID == shared.ID, p.SharedByViewer,
			"only the re-shared post carries share attribution")
	}
	assert.ElementsMatch(t, []string{own.ID, followed.ID, shared.ID}, ids)
	assert.NotContains(t, ids, hidden.ID)
	assert.Equal(t, 3, resp.Meta.Count)
	assert.False(t, resp.Meta.HasMore)
}

func TestTimelineOrdersNewestFirst(t *testing.T) {
	db := setupFeedDB(t)
	me := createFeedUser(t, db, "reader")

	oldest := createFeedPost(t, db, me, "oldest", models.CategoryOther, 3*time.Hour)
	middle := createFeedPost(t, db, me, "middle", models.CategoryOther, 2*time.Hour)
	newest := createFeedPost(t, db, me, "newest", models.CategoryOther, time.Hour)

	svc := NewService()
	resp, err := svc.GetTimeline(context.Background(), me.ID, "", 20, 0)
	require.NoError(t, err)

	require.Len(t, resp.Posts, 3)
	assert.Equal(t, newest.ID, resp.Posts[0].ID)
	assert.Equal(t, middle.ID, resp.Posts[1].ID)
	assert.Equal(t, oldest.ID, resp.Posts[2].ID)
}

func TestTimelineCategoryFilter(t *testing.T) {
	db := setupFeedDB(t)
	me := createFeedUser(t, db, "reader")

	tech := createFeedPost(t, db, me, "tech post", models.CategoryTechnology, 2*time.Hour)
	createFeedPost(t, db, me, "travel post", models.CategoryTravel, time.Hour)

	svc := NewService()
	resp, err := svc.GetTimeline(context.Background(), me.ID, models.CategoryTechnology, 20, 0)
	require.NoError(t, err)

	require.Len(t, resp.Posts, 1)
	assert.Equal(t, tech.ID, resp.Posts[0].ID)
}

func TestTimelinePagination(t *testing.T) {
	db := setupFeedDB(t)
	me := createFeedUser(t, db, "reader")

	for i := 0; i < 5; i++ {
		createFeedPost(t, db, me, "post", models.CategoryOther, time.Duration(i)*time.Hour)
	}

	svc := NewService()
	first, err := svc.GetTimeline(context.Background(), me.ID, "", 2, 0)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 2)
	assert.True(t, first.Meta.HasMore)

	last, err := svc.GetTimeline(context.Background(), me.ID, "", 2, 4)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 1)
	assert.False(t, last.Meta.HasMore)
}

func TestTimelineUnknownUserIsEmpty(t *testing.T) {
	db := setupFeedDB(t)
	author := createFeedUser(t, db, "someone")
	createFeedPost(t, db, author, "a post", models.CategoryOther, time.Hour)

	svc := NewService()
	resp, err := svc.GetTimeline(context.Background(), "no-such-user", "", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.False(t, resp.Meta.HasMore)
}

func TestTimelineSurfacesFollowLoadFailure(t *testing.T) {
	db := setupFeedDB(t)
	me := createFeedUser(t, db, "reader")
	createFeedPost(t, db, me, "my own post", models.CategoryOther, time.Hour)

	svc := NewService()

	// A broken follows table must fail the read, not quietly shrink the
	// feed to the user's own posts.
	require.NoError(t, db.Exec("DROP TABLE follows").Error)
	_, err := svc.GetTimeline(context.Background(), me.ID, "", 20, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load followees")
}

func TestGetPostsByTagExactMembership(t *testing.T) {
	db := setupFeedDB(t)
	author := createFeedUser(t, db, "tagger")

	goPost := createFeedPost(t, db, author, "learning #go today", models.CategoryTechnology, 2*time.Hour)
	golangPost := createFeedPost(t, db, author, "learning #golang today", models.CategoryTechnology, time.Hour)

	svc := NewService()

	posts, err := svc.GetPostsByTag(context.Background(), "#go", 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, goPost.ID, posts[0].ID)

	posts, err = svc.GetPostsByTag(context.Background(), "#golang", 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, golangPost.ID, posts[0].ID)
}

func TestGetUserPostsOnlyAuthor(t *testing.T) {
	db := setupFeedDB(t)
	author := createFeedUser(t, db, "author")
	other := createFeedUser(t, db, "other")

	mine := createFeedPost(t, db, author, "mine", models.CategoryOther, time.Hour)
	createFeedPost(t, db, other, "theirs", models.CategoryOther, time.Hour)

	svc := NewService()
	posts, err := svc.GetUserPosts(context.Background(), author.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, mine.ID, posts[0].ID)
}
