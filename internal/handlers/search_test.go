package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSearchRouter wires the search endpoints without an Elasticsearch
// client, exercising the SQL fallback path.
func setupSearchRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
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
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	database.DB = db

	h := NewHandlers(nil, nil, nil, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/search/posts", h.SearchPosts)
	router.GET("/api/v1/search/users", h.SearchUsers)
	return router, db
}

func searchRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchPostsFallbackMatchesText(t *testing.T) {
	router, db := setupSearchRouter(t)

	match := models.Post{UserID: "u1", Text: "brewing coffee at dawn", Category: models.CategoryJournal}
	require.NoError(t, db.Create(&match).Error)
	miss := models.Post{UserID: "u1", Text: "nothing to see here", Category: models.CategoryOther}
	require.NoError(t, db.Create(&miss).Error)

	w := searchRequest(router, "/api/v1/search/posts?q=coffee")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Posts, 1)
	assert.Equal(t, match.ID, body.Posts[0].ID)
}

func TestSearchPostsRequiresQuery(t *testing.T) {
	router, _ := setupSearchRouter(t)

	w := searchRequest(router, "/api/v1/search/posts")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUsersFallbackMatchesUsernameAndDisplayName(t *testing.T) {
	router, db := setupSearchRouter(t)

	byUsername := models.User{Email: "a@example.com", Username: "coffeelover", DisplayName: "Someone"}
	require.NoError(t, db.Create(&byUsername).Error)
	byDisplayName := models.User{Email: "b@example.com", Username: "other", DisplayName: "Coffee Fan"}
	require.NoError(t, db.Create(&byDisplayName).Error)
	miss := models.User{Email: "c@example.com", Username: "teadrinker", DisplayName: "Tea"}
	require.NoError(t, db.Create(&miss).Error)

	w := searchRequest(router, "/api/v1/search/users?q=coffee")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Users, 2)
}
