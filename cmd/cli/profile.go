package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your account profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getProfile()
	},
}

// apiGet performs an authenticated GET and returns the response body
func apiGet(path string) ([]byte, error) {
	req, err := http.NewRequest("GET", apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+authToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.Unmarshal(body, &errResp)
		if msg, ok := errResp["message"].(string); ok {
			return nil, fmt.Errorf("API error: %s", msg)
		}
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return body, nil
}

func getProfile() error {
	body, err := apiGet("/api/v1/auth/me")
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var resp struct {
		User struct {
			Username       string `json:"username"`
			DisplayName    string `json:"display_name"`
			Bio            string `json:"bio"`
			FollowerCount  int    `json:"follower_count"`
			FollowingCount int    `json:"following_count"`
			PostCount      int    `json:"post_count"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("\n📋 Profile Information\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Username: %s\n", resp.User.Username)
	fmt.Printf("Display Name: %s\n", resp.User.DisplayName)
	if resp.User.Bio != "" {
		fmt.Printf("Bio: %s\n", resp.User.Bio)
	}
	fmt.Printf("Followers: %d  Following: %d  Posts: %d\n\n",
		resp.User.FollowerCount, resp.User.FollowingCount, resp.User.PostCount)

	return nil
}
