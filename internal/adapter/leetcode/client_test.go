package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/adapter/logging"
	"vertex/internal/domain/model"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"https://leetcode.com/problems/two-sum/":                  "two-sum",
		"https://leetcode.com/problems/two-sum/description/":      "two-sum",
		"http://www.leetcode.com/problems/lru-cache":              "lru-cache",
		"leetcode.com/problems/3sum/":                             "3sum",
		"https://LeetCode.cn/problems/merge-intervals/?envType=x": "merge-intervals",
	}
	for url, want := range tests {
		got, ok := Slug(url)
		assert.True(t, ok, url)
		assert.Equal(t, want, got, url)
	}

	for _, url := range []string{"", "https://www.geeksforgeeks.org/problems/two-sum", "https://leetcode.com/discuss/1"} {
		_, ok := Slug(url)
		assert.False(t, ok, url)
	}
}

func newServer(t *testing.T, handler func(slug string) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]string `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(req.Variables["titleSlug"])))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	srv := newServer(t, func(slug string) string {
		assert.Equal(t, "two-sum", slug)
		return `{"data":{"question":{"title":"Two Sum","titleSlug":"two-sum","difficulty":"Easy","topicTags":[{"name":"Array"},{"name":"Hash Table"}]}}}`
	})
	c := New(srv.URL, time.Second, logging.New(nil))

	assert.True(t, c.Supports("https://leetcode.com/problems/two-sum/"))
	got, err := c.Lookup(context.Background(), "https://leetcode.com/problems/two-sum/description/")
	require.NoError(t, err)
	assert.Equal(t, model.QuestionDetails{
		Title:      "Two Sum",
		URL:        "https://leetcode.com/problems/two-sum/",
		Topics:     []string{"Array", "Hash Table"},
		Difficulty: "Easy",
	}, got)
}

func TestLookupMissingProblem(t *testing.T) {
	srv := newServer(t, func(string) string { return `{"data":{"question":null}}` })
	c := New(srv.URL, time.Second, logging.New(nil))

	_, err := c.Lookup(context.Background(), "https://leetcode.com/problems/nope/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestLookupErrors(t *testing.T) {
	srv := newServer(t, func(string) string { return `{"errors":[{"message":"rate limited"}]}` })
	c := New(srv.URL, time.Second, logging.New(nil))
	_, err := c.Lookup(context.Background(), "https://leetcode.com/problems/two-sum/")
	assert.ErrorContains(t, err, "rate limited")

	_, err = c.Lookup(context.Background(), "https://example.com/x")
	assert.Error(t, err)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	_, err = New(failing.URL, time.Second, logging.New(nil)).Lookup(context.Background(), "https://leetcode.com/problems/two-sum/")
	assert.ErrorContains(t, err, "503")
}
