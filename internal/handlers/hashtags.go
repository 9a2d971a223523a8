package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/util"
)

// GetTrendingHashtags returns the current trending hashtag ranking
// GET /api/v1/hashtags/trending
func (h *Handlers) GetTrendingHashtags(c *gin.Context) {
	limit, _ := util.ParsePagination(c.Query("limit"), "", 10, 50)

	ranking, err := h.trending.Trending(c.Request.Context(), limit)
	if err != nil {
		logger.ErrorWithFields("Failed to compute trending hashtags", err)
		util.RespondInternalError(c, "failed to compute trending hashtags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hashtags": ranking})
}

// GetPostsByHashtag lists posts carrying a hashtag, newest first.
// The tag is matched case-insensitively, with or without the '#' prefix.
// GET /api/v1/hashtags/:tag/posts
func (h *Handlers) GetPostsByHashtag(c *gin.Context) {
	tag := strings.ToLower(c.Param("tag"))
	if tag == "" {
		util.RespondBadRequest(c, "hashtag is required")
		return
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	posts, err := h.feed.GetPostsByTag(c.Request.Context(), tag, limit, offset)
	if err != nil {
		logger.ErrorWithFields("Failed to load posts by hashtag", err)
		util.RespondInternalError(c, "failed to load posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag":   tag,
		"posts": posts,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(posts),
		},
	})
}
