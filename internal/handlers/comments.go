package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/util"
)

// CommentRequest is the payload for creating or editing a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetComments lists a post's comments, oldest first
// GET /api/v1/posts/:id/comments
func (h *Handlers) GetComments(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	err := database.DB.First(&post, "id = ?", postID).Error
	if util.HandleDBError(c, err, "post") {
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 50, 100)

	var comments []models.Comment
	err = database.DB.
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(comments),
		},
	})
}

// AddComment adds a comment to a post and notifies the post author
// POST /api/v1/posts/:id/comments
func (h *Handlers) AddComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	comment, err := h.engagement.AddComment(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	metrics.Get().CommentsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// EditComment updates a comment's content. Author only.
// PUT /api/v1/comments/:id
func (h *Handlers) EditComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	comment, err := h.engagement.EditComment(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment removes a comment. Comment author or post author only.
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.engagement.DeleteComment(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
