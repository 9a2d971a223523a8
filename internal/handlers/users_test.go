package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserTestSuite covers profile edits, the user directory and account removal
type UserTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	alice  *models.User
	bob    *models.User
	admin  *models.User
}

func (suite *UserTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(suite.T(), err)

	// Hand-written DDL because AutoMigrate emits PostgreSQL-specific
	// column types that SQLite rejects.
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
		`CREATE TABLE post_likes (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE(post_id, user_id)
		)`,
		`CREATE TABLE post_shares (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE(post_id, user_id)
		)`,
		`CREATE TABLE saved_posts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			post_id TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE(user_id, post_id)
		)`,
		`CREATE TABLE comments (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			is_edited INTEGER DEFAULT 0,
			edited_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			recipient_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			type TEXT NOT NULL,
			post_id TEXT,
			read INTEGER DEFAULT 0,
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(suite.T(), db.Exec(stmt).Error)
	}

	database.DB = db
	suite.db = db
	h := NewHandlers(nil, nil, nil, nil)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	// Mock auth middleware that loads the user named by the header
	authMiddleware := func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		var user models.User
		if err := suite.db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Set("user", &user)
		c.Next()
	}

	users := suite.router.Group("/api/v1/users")
	users.Use(authMiddleware)
	users.GET("", h.ListUsers)
	users.PUT("/me", h.UpdateProfile)
	users.DELETE("/me", h.DeleteAccount)
	users.PUT("/:id", h.UpdateUser)
}

func (suite *UserTestSuite) SetupTest() {
	// other tests in this package swap the global DB
	database.DB = suite.db
	for _, table := range []string{"notifications", "comments", "saved_posts", "post_shares", "post_likes", "follows", "posts", "users"} {
		suite.db.Exec("DELETE FROM " + table)
	}

	suite.alice = suite.createUser("alice", false)
	suite.bob = suite.createUser("bob", false)
	suite.admin = suite.createUser("root", true)
}

func (suite *UserTestSuite) createUser(username string, isAdmin bool) *models.User {
	user := &models.User{
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: username,
		IsAdmin:     isAdmin,
	}
	require.NoError(suite.T(), suite.db.Create(user).Error)
	return user
}

func (suite *UserTestSuite) request(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *UserTestSuite) TestListUsersNewestFirst() {
	w := suite.request(http.MethodGet, "/api/v1/users", suite.alice.ID, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var body struct {
		Users []models.User `json:"users"`
		Meta  struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(suite.T(), body.Users, 3)
	assert.Equal(suite.T(), int64(3), body.Meta.Total)
}

func (suite *UserTestSuite) TestAdminMayEditAnyUser() {
	w := suite.request(http.MethodPut, "/api/v1/users/"+suite.bob.ID, suite.admin.ID,
		UpdateProfileRequest{DisplayName: "Renamed by admin"})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(suite.T(), suite.db.First(&reloaded, "id = ?", suite.bob.ID).Error)
	assert.Equal(suite.T(), "Renamed by admin", reloaded.DisplayName)
}

func (suite *UserTestSuite) TestNonAdminCannotEditOthers() {
	w := suite.request(http.MethodPut, "/api/v1/users/"+suite.bob.ID, suite.alice.ID,
		UpdateProfileRequest{DisplayName: "Hijacked"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	var reloaded models.User
	require.NoError(suite.T(), suite.db.First(&reloaded, "id = ?", suite.bob.ID).Error)
	assert.Equal(suite.T(), "bob", reloaded.DisplayName)
}

func (suite *UserTestSuite) TestUserMayEditSelfViaID() {
	w := suite.request(http.MethodPut, "/api/v1/users/"+suite.alice.ID, suite.alice.ID,
		UpdateProfileRequest{Bio: "now with a bio"})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(suite.T(), suite.db.First(&reloaded, "id = ?", suite.alice.ID).Error)
	assert.Equal(suite.T(), "now with a bio", reloaded.Bio)
}

func (suite *UserTestSuite) TestDeleteAccountCascades() {
	// alice follows bob, bob follows alice
	require.NoError(suite.T(), suite.db.Create(&models.Follow{FollowerID: suite.alice.ID, FolloweeID: suite.bob.ID}).Error)
	require.NoError(suite.T(), suite.db.Create(&models.Follow{FollowerID: suite.bob.ID, FolloweeID: suite.alice.ID}).Error)
	suite.db.Model(&models.User{}).Where("id = ?", suite.bob.ID).
		Updates(map[string]interface{}{"follower_count": 1, "following_count": 1})
	suite.db.Model(&models.User{}).Where("id = ?", suite.alice.ID).
		Updates(map[string]interface{}{"follower_count": 1, "following_count": 1})

	// alice authored a post that bob engaged with
	alicePost := &models.Post{UserID: suite.alice.ID, Text: "alice writes", Category: models.CategoryOther}
	require.NoError(suite.T(), suite.db.Create(alicePost).Error)
	require.NoError(suite.T(), suite.db.Create(&models.PostLike{PostID: alicePost.ID, UserID: suite.bob.ID}).Error)

	// bob authored a post that alice engaged with
	bobPost := &models.Post{UserID: suite.bob.ID, Text: "bob writes", Category: models.CategoryOther, LikeCount: 1, CommentCount: 1}
	require.NoError(suite.T(), suite.db.Create(bobPost).Error)
	require.NoError(suite.T(), suite.db.Create(&models.PostLike{PostID: bobPost.ID, UserID: suite.alice.ID}).Error)
	require.NoError(suite.T(), suite.db.Create(&models.Comment{PostID: bobPost.ID, UserID: suite.alice.ID, Content: "from alice"}).Error)

	require.NoError(suite.T(), suite.db.Create(&models.Notification{
		RecipientID: suite.alice.ID, SenderID: suite.bob.ID, Type: models.NotificationLike, PostID: &alicePost.ID,
	}).Error)

	w := suite.request(http.MethodDelete, "/api/v1/users/me", suite.alice.ID, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var userCount int64
	suite.db.Model(&models.User{}).Where("id = ?", suite.alice.ID).Count(&userCount)
	assert.Zero(suite.T(), userCount)

	var postCount int64
	suite.db.Model(&models.Post{}).Where("user_id = ?", suite.alice.ID).Count(&postCount)
	assert.Zero(suite.T(), postCount)

	var followCount int64
	suite.db.Model(&models.Follow{}).Count(&followCount)
	assert.Zero(suite.T(), followCount)

	var likeCount int64
	suite.db.Model(&models.PostLike{}).Count(&likeCount)
	assert.Zero(suite.T(), likeCount)

	var commentCount int64
	suite.db.Model(&models.Comment{}).Count(&commentCount)
	assert.Zero(suite.T(), commentCount)

	var notificationCount int64
	suite.db.Model(&models.Notification{}).Count(&notificationCount)
	assert.Zero(suite.T(), notificationCount)

	// bob's cached counters reflect alice's departure
	var bob models.User
	require.NoError(suite.T(), suite.db.First(&bob, "id = ?", suite.bob.ID).Error)
	assert.Zero(suite.T(), bob.FollowerCount)
	assert.Zero(suite.T(), bob.FollowingCount)

	var reloadedPost models.Post
	require.NoError(suite.T(), suite.db.First(&reloadedPost, "id = ?", bobPost.ID).Error)
	assert.Zero(suite.T(), reloadedPost.LikeCount)
	assert.Zero(suite.T(), reloadedPost.CommentCount)
}

func (suite *UserTestSuite) TestDeleteAccountLeavesOthersAlone() {
	bobPost := &models.Post{UserID: suite.bob.ID, Text: "bob stays", Category: models.CategoryOther}
	require.NoError(suite.T(), suite.db.Create(bobPost).Error)

	w := suite.request(http.MethodDelete, "/api/v1/users/me", suite.alice.ID, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var remaining int64
	suite.db.Model(&models.Post{}).Count(&remaining)
	assert.Equal(suite.T(), int64(1), remaining)

	var bob models.User
	assert.NoError(suite.T(), suite.db.First(&bob, "id = ?", suite.bob.ID).Error)
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}
