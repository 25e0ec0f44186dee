package importer

import (
	"strings"

	"vertex/internal/domain/model"
)

type role int

const (
	roleNone role = iota
	roleTitle
	roleURL
	roleTopics
	roleDifficulty
)

// Header substrings per role, checked in this order.
var roleKeywords = []struct {
	role     role
	keywords []string
}{
	{roleTitle, []string{"title", "problem", "name"}},
	{roleURL, []string{
		"link", "url", "href", "website",
		"leetcode", "gfg", "codeforces", "atcoder", "coding ninja", "hackerrank",
	}},
	{roleTopics, []string{"topic", "category", "tag"}},
	{roleDifficulty, []string{"difficulty", "level"}},
}

func classify(fieldName string) role {
	lower := strings.ToLower(fieldName)
	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(lower, kw) {
				return rk.role
			}
		}
	}
	return roleNone
}

// MapRows guesses a problem record for every row from its header names, falling
// back on the shape of the values. It never fails: anything it cannot place
// gets a default.
func MapRows(rows []Row) []model.Question {
	out := make([]model.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRow(row))
	}
	return out
}

func mapRow(row Row) model.Question {
	var (
		title, url               string
		topics                   []string
		difficulty               string
		hasTitle, hasURL         bool
		hasTopics, hasDifficulty bool
	)

	for _, f := range row {
		switch classify(f.Name) {
		case roleTitle:
			if !hasTitle {
				title, hasTitle = f.Value.String(), true
			}
		case roleURL:
			if !hasURL {
				url, hasURL = f.Value.String(), true
			}
		case roleTopics:
			if !hasTopics {
				topics, hasTopics = SplitTopics(f.Value.String()), true
			}
		case roleDifficulty:
			if !hasDifficulty {
				difficulty, hasDifficulty = f.Value.String(), true
			}
		}
	}

	if !hasURL {
		url = findLink(row)
	}
	if !hasTitle && len(row) > 0 {
		title = row[0].Value.String()
	}
	if len(topics) == 0 {
		topics = []string{model.DefaultTopic}
	}
	if !hasDifficulty {
		difficulty = model.DefaultDifficulty
	}

	return model.NewQuestion(model.QuestionDetails{
		Title:      title,
		URL:        url,
		Topics:     topics,
		Difficulty: difficulty,
	})
}

func findLink(row Row) string {
	for _, f := range row {
		if !f.Value.IsString() {
			continue
		}
		s := f.Value.String()
		if strings.HasPrefix(s, "http") || strings.HasPrefix(s, "www.") {
			return s
		}
	}
	return ""
}

// SplitTopics splits a topic cell on comma, pipe or slash, trimming each part
// and dropping empty ones.
func SplitTopics(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '/'
	})
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
