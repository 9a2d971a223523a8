package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v9"
)

// Index names
const (
	IndexUsers = "users"
	IndexPosts = "posts"
)

// Client wraps the Elasticsearch client with BlogSpace-specific functionality
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates a new Elasticsearch client
func NewClient() (*Client, error) {
	esURL := os.Getenv("ELASTICSEARCH_URL")
	if esURL == "" {
		esURL = "http://localhost:9200"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &Client{es: es}

	// Verify connection
	_, err = es.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	return client, nil
}

// InitializeIndices creates the search indices with proper mappings
func (c *Client) InitializeIndices(ctx context.Context) error {
	if err := c.createUsersIndex(ctx); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	if err := c.createPostsIndex(ctx); err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}

	return nil
}

// createUsersIndex creates the users search index with mapping
func (c *Client) createUsersIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "keyword",
				},
				"username": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type": "keyword",
						},
						"suggest": map[string]interface{}{
							"type":     "completion",
							"analyzer": "simple",
						},
					},
				},
				"display_name": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"bio": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"follower_count": map[string]interface{}{
					"type": "integer",
				},
				"created_at": map[string]interface{}{
					"type": "date",
				},
			},
		},
	}

	return c.createIndex(ctx, IndexUsers, mapping)
}

// createPostsIndex creates the posts search index with mapping
func (c *Client) createPostsIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "keyword",
				},
				"user_id": map[string]interface{}{
					"type": "keyword",
				},
				"username": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type": "keyword",
						},
					},
				},
				"text": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"category": map[string]interface{}{
					"type": "keyword",
				},
				"tags": map[string]interface{}{
					"type": "keyword",
				},
				"like_count": map[string]interface{}{
					"type": "integer",
				},
				"comment_count": map[string]interface{}{
					"type": "integer",
				},
				"share_count": map[string]interface{}{
					"type": "integer",
				},
				"created_at": map[string]interface{}{
					"type": "date",
				},
			},
		},
	}

	return c.createIndex(ctx, IndexPosts, mapping)
}

// createIndex creates an Elasticsearch index with the given mapping
func (c *Client) createIndex(ctx context.Context, indexName string, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{indexName})
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	res.Body.Close()

	// If index exists (status 200), skip creation
	if res.StatusCode == 200 {
		return nil
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = c.es.Indices.Create(indexName,
		c.es.Indices.Create.WithBody(bytes.NewReader(mappingJSON)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("error response [%s]", res.Status())
		}
		return fmt.Errorf("error creating index: [%s] %v", res.Status(), errResp["error"])
	}

	return nil
}

// IndexUser indexes a user document for search
func (c *Client) IndexUser(ctx context.Context, userID string, doc map[string]interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal user document: %w", err)
	}

	res, err := c.es.Index(IndexUsers, bytes.NewReader(body),
		c.es.Index.WithDocumentID(userID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index user: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("error response [%s]", res.Status())
		}
		return fmt.Errorf("error indexing user: [%s] %v", res.Status(), errResp["error"])
	}

	return nil
}

// IndexPost indexes a post document for search
func (c *Client) IndexPost(ctx context.Context, postID string, doc map[string]interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal post document: %w", err)
	}

	res, err := c.es.Index(IndexPosts, bytes.NewReader(body),
		c.es.Index.WithDocumentID(postID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index post: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("error response [%s]", res.Status())
		}
		return fmt.Errorf("error indexing post: [%s] %v", res.Status(), errResp["error"])
	}

	return nil
}

// DeleteUser deletes a user document from the search index
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	res, err := c.es.Delete(IndexUsers, userID,
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	defer res.Body.Close()

	// 404 is OK - document doesn't exist
	if res.IsError() && res.StatusCode != 404 {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("error response [%s]", res.Status())
		}
		return fmt.Errorf("error deleting user: [%s] %v", res.Status(), errResp["error"])
	}

	return nil
}

// DeletePost deletes a post document from the search index
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	res, err := c.es.Delete(IndexPosts, postID,
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	defer res.Body.Close()

	// 404 is OK - document doesn't exist
	if res.IsError() && res.StatusCode != 404 {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("error response [%s]", res.Status())
		}
		return fmt.Errorf("error deleting post: [%s] %v", res.Status(), errResp["error"])
	}

	return nil
}

// SearchUsersResult represents a user search result
type SearchUsersResult struct {
	Users []UserSearchHit `json:"users"`
	Total int             `json:"total"`
}

// UserSearchHit represents a single user search hit
type UserSearchHit struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"display_name"`
	Bio           string  `json:"bio"`
	FollowerCount int     `json:"follower_count"`
	Score         float64 `json:"score"`
}

// SearchUsers searches for users by query
func (c *Client) SearchUsers(ctx context.Context, query string, limit, offset int) (*SearchUsersResult, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"match": map[string]interface{}{
							"username": map[string]interface{}{
								"query":         query,
								"boost":         2.0,
								"fuzziness":     "AUTO",
								"prefix_length": 1,
							},
						},
					},
					{
						"match": map[string]interface{}{
							"display_name": map[string]interface{}{
								"query":     query,
								"boost":     1.5,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"match": map[string]interface{}{
							"bio": map[string]interface{}{
								"query":     query,
								"boost":     0.5,
								"fuzziness": "AUTO",
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"follower_count": map[string]interface{}{"order": "desc"}},
		},
		"from": offset,
		"size": limit,
	}

	queryJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(IndexUsers),
		c.es.Search.WithBody(bytes.NewReader(queryJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return nil, fmt.Errorf("error response [%s]", res.Status())
		}
		return nil, fmt.Errorf("error searching users: [%s] %v", res.Status(), errResp["error"])
	}

	var searchResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	users := make([]UserSearchHit, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		user := UserSearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if username, ok := hit.Source["username"].(string); ok {
			user.Username = username
		}
		if displayName, ok := hit.Source["display_name"].(string); ok {
			user.DisplayName = displayName
		}
		if bio, ok := hit.Source["bio"].(string); ok {
			user.Bio = bio
		}
		if followerCount, ok := hit.Source["follower_count"].(float64); ok {
			user.FollowerCount = int(followerCount)
		}

		users = append(users, user)
	}

	return &SearchUsersResult{
		Users: users,
		Total: searchResp.Hits.Total.Value,
	}, nil
}

// SearchPostsResult represents a post search result
type SearchPostsResult struct {
	Posts []PostSearchHit `json:"posts"`
	Total int             `json:"total"`
}

// PostSearchHit represents a single post search hit
type PostSearchHit struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	Text         string   `json:"text"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	LikeCount    int      `json:"like_count"`
	CommentCount int      `json:"comment_count"`
	ShareCount   int      `json:"share_count"`
	CreatedAt    string   `json:"created_at"`
	Score        float64  `json:"score"`
}

// SearchPosts searches for posts by text, username, and tags
func (c *Client) SearchPosts(ctx context.Context, query string, limit, offset int) (*SearchPostsResult, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"match": map[string]interface{}{
							"text": map[string]interface{}{
								"query":     query,
								"boost":     3.0,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"match": map[string]interface{}{
							"username": map[string]interface{}{
								"query":     query,
								"boost":     2.0,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"match": map[string]interface{}{
							"tags": map[string]interface{}{
								"query": query,
								"boost": 1.5,
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"from": offset,
		"size": limit,
	}

	queryJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(IndexPosts),
		c.es.Search.WithBody(bytes.NewReader(queryJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var errResp map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil {
			return nil, fmt.Errorf("error response [%s]", res.Status())
		}
		return nil, fmt.Errorf("error searching posts: [%s] %v", res.Status(), errResp["error"])
	}

	var searchResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	posts := make([]PostSearchHit, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		post := PostSearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if userID, ok := hit.Source["user_id"].(string); ok {
			post.UserID = userID
		}
		if username, ok := hit.Source["username"].(string); ok {
			post.Username = username
		}
		if text, ok := hit.Source["text"].(string); ok {
			post.Text = text
		}
		if category, ok := hit.Source["category"].(string); ok {
			post.Category = category
		}
		if tags, ok := hit.Source["tags"].([]interface{}); ok {
			post.Tags = make([]string, 0, len(tags))
			for _, t := range tags {
				if ts, ok := t.(string); ok {
					post.Tags = append(post.Tags, ts)
				}
			}
		}
		if likeCount, ok := hit.Source["like_count"].(float64); ok {
			post.LikeCount = int(likeCount)
		}
		if commentCount, ok := hit.Source["comment_count"].(float64); ok {
			post.CommentCount = int(commentCount)
		}
		if shareCount, ok := hit.Source["share_count"].(float64); ok {
			post.ShareCount = int(shareCount)
		}
		if createdAt, ok := hit.Source["created_at"].(string); ok {
			post.CreatedAt = createdAt
		}

		posts = append(posts, post)
	}

	return &SearchPostsResult{
		Posts: posts,
		Total: searchResp.Hits.Total.Value,
	}, nil
}

// esSearchResponse is the subset of the Elasticsearch search response we read.
type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string                 `json:"_id"`
			Score  float64                `json:"_score"`
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
