package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Post is the subset of a raw dataset record the report cares about.
// Records come straight from the provider, so every field is optional and
// extraction never fails, it just leaves zero values behind.
type Post struct {
	ID       string
	Text     string
	Author   string
	Fans     int64
	Likes    int64
	Plays    int64
	Comments int64
	Shares   int64
	URL      string
	Hashtags []string
}

// Summary aggregates one result set.
type Summary struct {
	TotalPosts    int
	TotalLikes    int64
	TotalPlays    int64
	TotalComments int64
	TotalShares   int64
	UniqueAuthors int
	// HashtagCounts maps each hashtag to the number of posts carrying it.
	HashtagCounts map[string]int
	// TopPosts holds the most-liked posts, best first.
	TopPosts []Post
}

// topPostLimit caps how many posts a summary keeps
const topPostLimit = 10

// LoadRecords reads a result file back into raw records.
func LoadRecords(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}

	return records, nil
}

// Summarize aggregates raw records into a Summary.
func Summarize(records []map[string]interface{}) *Summary {
	s := &Summary{
		HashtagCounts: make(map[string]int),
	}

	authors := make(map[string]struct{})
	posts := make([]Post, 0, len(records))

	for _, rec := range records {
		post := FromRecord(rec)
		posts = append(posts, post)

		s.TotalPosts++
		s.TotalLikes += post.Likes
		s.TotalPlays += post.Plays
		s.TotalComments += post.Comments
		s.TotalShares += post.Shares

		if post.Author != "" {
			authors[post.Author] = struct{}{}
		}
		for _, tag := range post.Hashtags {
			s.HashtagCounts[tag]++
		}
	}

	s.UniqueAuthors = len(authors)

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Likes > posts[j].Likes
	})
	if len(posts) > topPostLimit {
		posts = posts[:topPostLimit]
	}
	s.TopPosts = posts

	return s
}

// FromRecord extracts a Post from one raw record, tolerating missing or
// differently typed fields.
func FromRecord(rec map[string]interface{}) Post {
	post := Post{
		ID:       stringField(rec, "id"),
		Text:     stringField(rec, "text"),
		Likes:    intField(rec, "diggCount"),
		Plays:    intField(rec, "playCount"),
		Comments: intField(rec, "commentCount"),
		Shares:   intField(rec, "shareCount"),
		URL:      stringField(rec, "webVideoUrl"),
	}

	if author, ok := rec["authorMeta"].(map[string]interface{}); ok {
		post.Author = stringField(author, "name")
		post.Fans = intField(author, "fans")
	}

	if tags, ok := rec["hashtags"].([]interface{}); ok {
		for _, t := range tags {
			tag, ok := t.(map[string]interface{})
			if !ok {
				continue
			}
			if name := strings.ToLower(stringField(tag, "name")); name != "" {
				post.Hashtags = append(post.Hashtags, name)
			}
		}
	}

	return post
}

// SortedHashtags returns the hashtag counts as a slice ordered by
// descending count, ties broken alphabetically.
func (s *Summary) SortedHashtags() []HashtagCount {
	counts := make([]HashtagCount, 0, len(s.HashtagCounts))
	for tag, n := range s.HashtagCounts {
		counts = append(counts, HashtagCount{Tag: tag, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	return counts
}

// HashtagCount pairs a hashtag with its post count.
type HashtagCount struct {
	Tag   string
	Count int
}

func stringField(rec map[string]interface{}, key string) string {
	switch v := rec[key].(type) {
	case string:
		return v
	case float64:
		// Some providers ship numeric IDs
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func intField(rec map[string]interface{}, key string) int64 {
	switch v := rec[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
