package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nafishahmed/blogspace/internal/hashtag"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating follows...")
	if err := s.seedFollows(users, 200); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	log("Creating posts...")
	posts, err := s.seedPosts(users, 300)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	log("Creating comments...")
	if err := s.seedComments(users, posts, 600); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	log("Creating likes, shares and saves...")
	if err := s.seedEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to seed engagement: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with minimal, predictable data
func (s *Seeder) SeedTest() error {
	users, err := s.seedUsers(3)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedFollows(users, 2); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}
	if _, err := s.seedPosts(users, 5); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	return nil
}

// Clean removes all seeded data
func (s *Seeder) Clean() error {
	tables := []interface{}{
		&models.Notification{},
		&models.Comment{},
		&models.PostLike{},
		&models.PostShare{},
		&models.SavedPost{},
		&models.Post{},
		&models.Follow{},
		&models.NewsletterSubscriber{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clean table: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	// Same password for every dev account
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashedStr := string(hashed)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := models.User{
			Email:        fmt.Sprintf("%s%d@%s", username, i, gofakeit.DomainName()),
			Username:     fmt.Sprintf("%s%d", username, i),
			DisplayName:  gofakeit.Name(),
			Bio:          gofakeit.Sentence(12),
			PasswordHash: &hashedStr,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedFollows(users []models.User, count int) error {
	if len(users) < 2 {
		return nil
	}
	created := 0
	for attempts := 0; created < count && attempts < count*4; attempts++ {
		follower := users[rand.Intn(len(users))]
		followee := users[rand.Intn(len(users))]
		if follower.ID == followee.ID {
			continue
		}

		var existing models.Follow
		err := s.db.Where("follower_id = ? AND followee_id = ?", follower.ID, followee.ID).First(&existing).Error
		if err == nil {
			continue
		}

		follow := models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
		if err := s.db.Create(&follow).Error; err != nil {
			return err
		}
		s.db.Model(&models.User{}).Where("id = ?", follower.ID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1"))
		s.db.Model(&models.User{}).Where("id = ?", followee.ID).
			UpdateColumn("follower_count", gorm.Expr("follower_count + 1"))
		created++
	}
	return nil
}

var seedTopics = []string{
	"#golang", "#coding", "#travel", "#coffee", "#design", "#music",
	"#books", "#startup", "#fitness", "#photography", "#cooking", "#ai",
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]

		text := gofakeit.Paragraph(1, 3, 12, " ")
		// Sprinkle hashtags into roughly two thirds of posts
		if rand.Intn(3) > 0 {
			tagCount := 1 + rand.Intn(3)
			for t := 0; t < tagCount; t++ {
				text += " " + seedTopics[rand.Intn(len(seedTopics))]
			}
		}

		post := models.Post{
			UserID:    author.ID,
			Text:      text,
			Category:  models.Categories[rand.Intn(len(models.Categories))],
			Tags:      hashtag.ExtractTags(text),
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, 0, -14), time.Now()),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		s.db.Model(&models.User{}).Where("id = ?", author.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1"))
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) error {
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := posts[rand.Intn(len(posts))]

		comment := models.Comment{
			PostID:  post.ID,
			UserID:  author.ID,
			Content: gofakeit.Sentence(10),
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
		s.db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))

		if post.UserID != author.ID {
			notification := models.Notification{
				RecipientID: post.UserID,
				SenderID:    author.ID,
				Type:        models.NotificationComment,
				PostID:      &post.ID,
			}
			if err := s.db.Create(&notification).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedEngagement(users []models.User, posts []models.Post) error {
	for _, post := range posts {
		likeCount := rand.Intn(8)
		for i := 0; i < likeCount && i < len(users); i++ {
			user := users[(i*7+rand.Intn(len(users)))%len(users)]

			var existing models.PostLike
			if err := s.db.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&existing).Error; err == nil {
				continue
			}

			like := models.PostLike{PostID: post.ID, UserID: user.ID}
			if err := s.db.Create(&like).Error; err != nil {
				return err
			}
			s.db.Model(&models.Post{}).Where("id = ?", post.ID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1"))

			if post.UserID != user.ID {
				notification := models.Notification{
					RecipientID: post.UserID,
					SenderID:    user.ID,
					Type:        models.NotificationLike,
					PostID:      &post.ID,
				}
				if err := s.db.Create(&notification).Error; err != nil {
					return err
				}
			}
		}

		if rand.Intn(4) == 0 {
			user := users[rand.Intn(len(users))]
			share := models.PostShare{PostID: post.ID, UserID: user.ID}
			if err := s.db.Create(&share).Error; err == nil {
				s.db.Model(&models.Post{}).Where("id = ?", post.ID).
					UpdateColumn("share_count", gorm.Expr("share_count + 1"))
			}
		}

		if rand.Intn(3) == 0 {
			user := users[rand.Intn(len(users))]
			saved := models.SavedPost{PostID: post.ID, UserID: user.ID}
			if err := s.db.Create(&saved).Error; err == nil {
				s.db.Model(&models.Post{}).Where("id = ?", post.ID).
					UpdateColumn("save_count", gorm.Expr("save_count + 1"))
			}
		}
	}
	return nil
}
