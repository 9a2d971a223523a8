package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("Verifying seed data...")
	fmt.Println()

	counts := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"follows", &models.Follow{}},
		{"posts", &models.Post{}},
		{"comments", &models.Comment{}},
		{"post_likes", &models.PostLike{}},
		{"post_shares", &models.PostShare{}},
		{"saved_posts", &models.SavedPost{}},
		{"notifications", &models.Notification{}},
	}
	for _, c := range counts {
		var n int64
		if err := database.DB.Model(c.model).Count(&n).Error; err != nil {
			log.Fatalf("Failed to count %s: %v", c.name, err)
		}
		fmt.Printf("%-14s %d\n", c.name, n)
	}

	// Spot-check that cached counters agree with the join tables
	var post models.Post
	if err := database.DB.Order("like_count DESC").First(&post).Error; err == nil {
		var likes int64
		database.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
		fmt.Printf("\nmost liked post %s: like_count=%d, actual likes=%d\n", post.ID, post.LikeCount, likes)
		if int64(post.LikeCount) != likes {
			log.Fatalf("cached like_count disagrees with post_likes")
		}
	}

	fmt.Println("\nSeed data looks consistent.")
}
