package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is the fixed classification attached to every post
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryFun        Category = "Fun"
	CategoryAcademics  Category = "Academics"
	CategoryProjects   Category = "Projects"
	CategoryFashion    Category = "Fashion"
	CategoryTravel     Category = "Travel"
	CategoryJournal    Category = "Journal"
	CategoryOther      Category = "Other"
)

// Categories lists every valid post category
var Categories = []Category{
	CategoryTechnology,
	CategoryFun,
	CategoryAcademics,
	CategoryProjects,
	CategoryFashion,
	CategoryTravel,
	CategoryJournal,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Post represents an authored blog post
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Text     string   `gorm:"type:text;not null" json:"text"`
	ImageURL string   `json:"image_url,omitempty"`
	Category Category `gorm:"type:varchar(20);not null;default:'Other'" json:"category"`

	// Lowercase, deduplicated hashtags extracted from Text, first-occurrence order
	Tags StringArray `gorm:"type:text[]" json:"tags"`

	// Cached engagement counters; the post_likes / comments / post_shares /
	// saved_posts tables are the source of truth
	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`
	ShareCount   int `gorm:"default:0" json:"share_count"`
	SaveCount    int `gorm:"default:0" json:"save_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Set per request when the viewer re-shared this post into their
	// timeline. Not a column.
	SharedByViewer bool `gorm:"-" json:"shared_by_viewer,omitempty"`
}

// PostLike marks membership of a user in a post's like set
type PostLike struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID string `gorm:"not null;index;uniqueIndex:idx_post_likes_pair" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID" json:"-"`
	UserID string `gorm:"not null;index;uniqueIndex:idx_post_likes_pair" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PostShare marks a user re-sharing a post into their own timeline
type PostShare struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID string `gorm:"not null;index;uniqueIndex:idx_post_shares_pair" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID" json:"-"`
	UserID string `gorm:"not null;index;uniqueIndex:idx_post_shares_pair" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SavedPost is a user's bookmark of a post. Saving toggles, it never accumulates.
type SavedPost struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index;uniqueIndex:idx_saved_posts_pair" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	PostID string `gorm:"not null;index;uniqueIndex:idx_saved_posts_pair" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID" json:"post,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	return nil
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

func (s *PostShare) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}

func (sp *SavedPost) BeforeCreate(tx *gorm.DB) error {
	if sp.ID == "" {
		sp.ID = generateUUID()
	}
	return nil
}
