package search

import (
	"github.com/nafishahmed/blogspace/internal/models"
)

// UserToSearchDoc converts a User model to a search document
func UserToSearchDoc(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             user.ID,
		"username":       user.Username,
		"display_name":   user.DisplayName,
		"bio":            user.Bio,
		"follower_count": user.FollowerCount,
		"created_at":     user.CreatedAt,
	}
}

// PostToSearchDoc converts a Post model to a search document
func PostToSearchDoc(post models.Post) map[string]interface{} {
	return map[string]interface{}{
		"id":            post.ID,
		"user_id":       post.UserID,
		"username":      post.User.Username,
		"text":          post.Text,
		"category":      string(post.Category),
		"tags":          []string(post.Tags),
		"like_count":    post.LikeCount,
		"comment_count": post.CommentCount,
		"share_count":   post.ShareCount,
		"created_at":    post.CreatedAt,
	}
}
