package crossword

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Question is one entry of the external question bank.
type Question struct {
	Prompt      string `json:"prompt"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// FeedClient fetches questions from the external bank. The fetch honours
// the caller's context: when the deadline fires mid-request the call
// returns the context error and nothing else happens, so no state is ever
// updated after an abort.
type FeedClient struct {
	feedURL string
	client  *http.Client
}

func NewFeedClient(feedURL string) *FeedClient {
	return &FeedClient{
		feedURL: feedURL,
		// the per-call context carries the timeout
		client: &http.Client{},
	}
}

// Fetch returns up to limit questions from the feed.
func (that *FeedClient) Fetch(ctx context.Context, limit int) ([]Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query question bank: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question bank responded with status %d", resp.StatusCode)
	}

	var questions []Question
	if err = json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return nil, fmt.Errorf("failed to decode question bank response: %w", err)
	}

	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}

	return questions, nil
}
