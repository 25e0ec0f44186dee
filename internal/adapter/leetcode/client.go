package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// DefaultEndpoint is the public LeetCode GraphQL API.
const DefaultEndpoint = "https://leetcode.com/graphql"

const questionQuery = `query questionData($titleSlug: String!) { question(titleSlug: $titleSlug) { title titleSlug difficulty isPaidOnly topicTags { name } } }`

var problemURL = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?leetcode\.(?:com|cn)/problems/([a-z0-9-]+)`)

// Client resolves LeetCode problem URLs to their canonical metadata.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     ports.Logger
}

var _ ports.ProblemCatalog = (*Client)(nil)

// New creates a new LeetCode client. An empty endpoint uses DefaultEndpoint.
func New(endpoint string, timeout time.Duration, logger ports.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger,
	}
}

// Slug extracts the problem slug from a LeetCode problem URL.
func Slug(url string) (string, bool) {
	m := problemURL.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (c *Client) Supports(url string) bool {
	_, ok := Slug(url)
	return ok
}

// Lookup fetches title, difficulty and topic tags for the problem at url.
func (c *Client) Lookup(ctx context.Context, url string) (model.QuestionDetails, error) {
	slug, ok := Slug(url)
	if !ok {
		return model.QuestionDetails{}, fmt.Errorf("not a leetcode problem url: %q", url)
	}

	body, err := json.Marshal(map[string]any{
		"operationName": "questionData",
		"query":         questionQuery,
		"variables":     map[string]string{"titleSlug": slug},
	})
	if err != nil {
		return model.QuestionDetails{}, fmt.Errorf("marshal graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.QuestionDetails{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com/problems/"+slug+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.QuestionDetails{}, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return model.QuestionDetails{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var gqlResp struct {
		Data struct {
			Question *struct {
				Title      string `json:"title"`
				TitleSlug  string `json:"titleSlug"`
				Difficulty string `json:"difficulty"`
				IsPaidOnly bool   `json:"isPaidOnly"`
				TopicTags  []struct {
					Name string `json:"name"`
				} `json:"topicTags"`
			} `json:"question"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return model.QuestionDetails{}, fmt.Errorf("decode response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return model.QuestionDetails{}, fmt.Errorf("graphql error: %s", gqlResp.Errors[0].Message)
	}

	q := gqlResp.Data.Question
	if q == nil || q.TitleSlug == "" {
		return model.QuestionDetails{}, fmt.Errorf("problem %q: %w", slug, model.ErrNotFound)
	}

	topics := make([]string, 0, len(q.TopicTags))
	for _, tag := range q.TopicTags {
		topics = append(topics, tag.Name)
	}

	c.logger.Debug(ctx, "leetcode problem resolved", "slug", slug, "difficulty", q.Difficulty)
	return model.QuestionDetails{
		Title:      q.Title,
		URL:        fmt.Sprintf("https://leetcode.com/problems/%s/", q.TitleSlug),
		Topics:     topics,
		Difficulty: q.Difficulty,
	}, nil
}
