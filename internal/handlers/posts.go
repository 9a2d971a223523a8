package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/hashtag"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/search"
	"github.com/nafishahmed/blogspace/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreatePostRequest is the payload for creating a post
type CreatePostRequest struct {
	Text     string `json:"text" binding:"required"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

// CreatePost creates a new post for the current user.
// Hashtags are extracted from the text at write time.
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := util.ValidatePostText(req.Text); err != nil {
		util.RespondValidationError(c, "text", err.Error())
		return
	}

	category := models.Category(req.Category)
	if req.Category == "" {
		category = models.CategoryOther
	} else if !category.Valid() {
		util.RespondValidationError(c, "category", "unknown category")
		return
	}

	post := models.Post{
		UserID:   userID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
		Category: category,
		Tags:     hashtag.ExtractTags(req.Text),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
	})
	if err != nil {
		logger.ErrorWithFields("Failed to create post", err)
		util.RespondInternalError(c, "failed to create post")
		return
	}

	metrics.RecordPostCreated(string(post.Category))
	h.trending.Invalidate(c.Request.Context())

	if err := database.DB.Preload("User").First(&post, "id = ?", post.ID).Error; err != nil {
		logger.ErrorWithFields("Failed to reload post", err)
	}

	h.indexPost(c.Request.Context(), post)

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// indexPost pushes a post into the search index. Best effort: index
// lag only degrades search results, so failures are logged, not surfaced.
func (h *Handlers) indexPost(ctx context.Context, post models.Post) {
	if h.search == nil {
		return
	}
	if err := h.search.IndexPost(ctx, post.ID, search.PostToSearchDoc(post)); err != nil {
		logger.Warn("Failed to index post for search", zap.String("post_id", post.ID), zap.Error(err))
	}
}

// GetPost returns a single post with its author
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	err := database.DB.Preload("User").First(&post, "id = ?", postID).Error
	if util.HandleDBError(c, err, "post") {
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// UpdatePostRequest is the payload for editing a post
type UpdatePostRequest struct {
	Text     string `json:"text" binding:"required"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

// UpdatePost edits a post. Only the author may edit; tags are re-extracted
// from the new text.
// PUT /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	postID := c.Param("id")

	var post models.Post
	err := database.DB.First(&post, "id = ?", postID).Error
	if util.HandleDBError(c, err, "post") {
		return
	}

	if post.UserID != userID {
		util.RespondUnauthorized(c, "only the author can edit this post")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := util.ValidatePostText(req.Text); err != nil {
		util.RespondValidationError(c, "text", err.Error())
		return
	}

	if req.Category != "" {
		category := models.Category(req.Category)
		if !category.Valid() {
			util.RespondValidationError(c, "category", "unknown category")
			return
		}
		post.Category = category
	}

	post.Text = req.Text
	post.ImageURL = req.ImageURL
	post.Tags = hashtag.ExtractTags(req.Text)

	if err := database.DB.Save(&post).Error; err != nil {
		logger.ErrorWithFields("Failed to update post", err)
		util.RespondInternalError(c, "failed to update post")
		return
	}

	h.trending.Invalidate(c.Request.Context())
	h.indexPost(c.Request.Context(), post)

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost removes a post and everything hanging off it: comments, likes,
// shares, saves. Only the author may delete.
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	postID := c.Param("id")

	var post models.Post
	err := database.DB.First(&post, "id = ?", postID).Error
	if util.HandleDBError(c, err, "post") {
		return
	}

	if post.UserID != userID {
		util.RespondUnauthorized(c, "only the author can delete this post")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostShare{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("post_count", gorm.Expr("CASE WHEN post_count > 0 THEN post_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		logger.ErrorWithFields("Failed to delete post", err)
		util.RespondInternalError(c, "failed to delete post")
		return
	}

	h.trending.Invalidate(c.Request.Context())

	if h.search != nil {
		if err := h.search.DeletePost(c.Request.Context(), postID); err != nil {
			logger.Warn("Failed to remove post from search index", zap.String("post_id", postID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// GetPostLikes lists the users who liked a post
// GET /api/v1/posts/:id/likes
func (h *Handlers) GetPostLikes(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	err := database.DB.First(&post, "id = ?", postID).Error
	if util.HandleDBError(c, err, "post") {
		return
	}

	var likes []models.PostLike
	err = database.DB.
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get likes")
		return
	}

	users := make([]gin.H, len(likes))
	for i, like := range likes {
		users[i] = formatUserSummary(&like.User)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetCategories returns every category with its post count
// GET /api/v1/categories
func (h *Handlers) GetCategories(c *gin.Context) {
	type categoryCount struct {
		Category models.Category `json:"category"`
		Count    int64           `json:"count"`
	}

	var rows []categoryCount
	err := database.DB.Model(&models.Post{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		util.RespondInternalError(c, "failed to count categories")
		return
	}

	counts := make(map[models.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}

	result := make([]categoryCount, 0, len(models.Categories))
	for _, category := range models.Categories {
		result = append(result, categoryCount{Category: category, Count: counts[category]})
	}

	c.JSON(http.StatusOK, gin.H{"categories": result})
}

// SearchPosts finds posts matching the query. Backed by Elasticsearch when
// a cluster is configured; otherwise a SQL LIKE over post text, newest first.
// GET /api/v1/search/posts?q=
func (h *Handlers) SearchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		util.RespondBadRequest(c, "query parameter 'q' is required")
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	if h.search != nil {
		result, err := h.search.SearchPosts(c.Request.Context(), query, limit, offset)
		if err != nil {
			logger.Warn("Post search query failed, falling back to SQL", zap.Error(err))
		} else {
			posts := h.loadPostsByID(result.Posts)
			c.JSON(http.StatusOK, gin.H{
				"posts": posts,
				"meta": gin.H{
					"limit":  limit,
					"offset": offset,
					"count":  len(posts),
					"total":  result.Total,
				},
			})
			return
		}
	}

	var posts []models.Post
	err := database.DB.
		Preload("User").
		Where("text LIKE ?", "%"+query+"%").
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to search posts")
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

// loadPostsByID resolves search hits back to full rows, keeping the
// relevance order the index returned. Hits whose rows have since been
// deleted are dropped.
func (h *Handlers) loadPostsByID(hits []search.PostSearchHit) []models.Post {
	if len(hits) == 0 {
		return []models.Post{}
	}

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
	}

	var rows []models.Post
	if err := database.DB.Preload("User").Where("id IN (?)", ids).Find(&rows).Error; err != nil {
		logger.ErrorWithFields("Failed to load posts for search hits", err)
		return []models.Post{}
	}

	byID := make(map[string]models.Post, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	posts := make([]models.Post, 0, len(hits))
	for _, hit := range hits {
		if post, ok := byID[hit.ID]; ok {
			posts = append(posts, post)
		}
	}
	return posts
}

// formatUserSummary is the compact user shape embedded in list responses
func formatUserSummary(user *models.User) gin.H {
	if user == nil {
		return nil
	}
	return gin.H{
		"id":                  user.ID,
		"username":            user.Username,
		"display_name":        user.DisplayName,
		"profile_picture_url": user.ProfilePictureURL,
	}
}
