package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var timelineLimit int
var timelineCategory string

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show your home timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showTimeline()
	},
}

var trendingLimit int

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending hashtags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showTrending()
	},
}

func init() {
	timelineCmd.Flags().IntVar(&timelineLimit, "limit", 10, "Number of posts to show")
	timelineCmd.Flags().StringVar(&timelineCategory, "category", "", "Filter by category")
	trendingCmd.Flags().IntVar(&trendingLimit, "limit", 10, "Number of hashtags to show")
}

func showTimeline() error {
	path := fmt.Sprintf("/api/v1/feed/timeline?limit=%d", timelineLimit)
	if timelineCategory != "" {
		path += "&category=" + url.QueryEscape(timelineCategory)
	}

	body, err := apiGet(path)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var resp struct {
		Posts []struct {
			Text     string `json:"text"`
			Category string `json:"category"`
			User     struct {
				Username string `json:"username"`
			} `json:"user"`
			LikeCount    int `json:"like_count"`
			CommentCount int `json:"comment_count"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Posts) == 0 {
		fmt.Println("Your timeline is empty. Follow some users to see their posts!")
		return nil
	}

	for _, post := range resp.Posts {
		text := post.Text
		if len(text) > 120 {
			text = text[:117] + "..."
		}
		fmt.Printf("@%-20s [%s]\n  %s\n  ♥ %d  💬 %d\n\n",
			post.User.Username, post.Category, text, post.LikeCount, post.CommentCount)
	}

	return nil
}

func showTrending() error {
	body, err := apiGet(fmt.Sprintf("/api/v1/hashtags/trending?limit=%d", trendingLimit))
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var resp struct {
		Hashtags []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"hashtags"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Hashtags) == 0 {
		fmt.Println("Nothing is trending right now.")
		return nil
	}

	fmt.Printf("\n🔥 Trending Hashtags\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	for i, tag := range resp.Hashtags {
		fmt.Printf("%2d. %-24s %d posts\n", i+1, tag.Tag, tag.Count)
	}
	fmt.Printf("\n")

	return nil
}
