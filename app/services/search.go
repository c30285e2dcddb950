package services

import (
	"strings"

	"folio/app/models"
)

// FilterPosts keeps the posts whose title, description or category contain
// query, ignoring case. Order is preserved. An empty query returns posts as is.
func FilterPosts(posts []*models.Post, query string) []*models.Post {
	if query == "" {
		return posts
	}

	needle := strings.ToLower(query)
	matches := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		haystack := strings.ToLower(post.Title + " " + post.Description + " " + post.Category)
		if strings.Contains(haystack, needle) {
			matches = append(matches, post)
		}
	}
	return matches
}
