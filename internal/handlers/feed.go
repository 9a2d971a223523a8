package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/util"
)

// GetTimeline returns the current user's home feed: own posts, posts from
// followed users, and posts they re-shared. Optional ?category= narrows it.
// GET /api/v1/feed/timeline
func (h *Handlers) GetTimeline(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		util.RespondValidationError(c, "category", "unknown category")
		return
	}

	start := time.Now()
	timeline, err := h.feed.GetTimeline(c.Request.Context(), userID, category, limit, offset)
	if err != nil {
		logger.ErrorWithFields("Failed to build timeline", err)
		util.RespondInternalError(c, "failed to build timeline")
		return
	}
	metrics.Get().FeedGenerationTime.WithLabelValues("timeline").Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, timeline)
}

// GetGlobalFeed returns the newest posts across all users
// GET /api/v1/feed/global
func (h *Handlers) GetGlobalFeed(c *gin.Context) {
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		util.RespondValidationError(c, "category", "unknown category")
		return
	}

	query := database.DB.Preload("User")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var posts []models.Post
	err := query.
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		logger.ErrorWithFields("Failed to load global feed", err)
		util.RespondInternalError(c, "failed to load feed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(posts),
		},
	})
}

// GetUserPosts returns a single author's posts, newest first
// GET /api/v1/users/:id/posts
func (h *Handlers) GetUserPosts(c *gin.Context) {
	authorID := c.Param("id")

	var user models.User
	err := database.DB.First(&user, "id = ?", authorID).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	posts, err := h.feed.GetUserPosts(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		logger.ErrorWithFields("Failed to load user posts", err)
		util.RespondInternalError(c, "failed to load posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(posts),
		},
	})
}
