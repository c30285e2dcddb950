package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				Title:   "Valid Title",
				Date:    "2024-01-01",
				Status:  StatusPublished,
				Image:   "/uploads/cover.png",
				Content: "Body",
			},
			wantErr: false,
		},
		{
			name:    "empty body is allowed",
			post:    &Post{Title: "Valid Title", Date: "2024-01-01"},
			wantErr: false,
		},
		{
			name:    "missing title",
			post:    &Post{Date: "2024-01-01"},
			wantErr: true,
		},
		{
			name:    "title too long",
			post:    &Post{Title: strings.Repeat("a", 201), Date: "2024-01-01"},
			wantErr: true,
		},
		{
			name:    "missing date",
			post:    &Post{Title: "Valid Title"},
			wantErr: true,
		},
		{
			name:    "date not in YYYY-MM-DD form",
			post:    &Post{Title: "Valid Title", Date: "01/02/2024"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			post:    &Post{Title: "Valid Title", Date: "2024-01-01", Status: "archived"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostValidationUsesJSONFieldNames(t *testing.T) {
	err := (&Post{Title: "Valid Title"}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "'date'")
}

func TestPostNormalize(t *testing.T) {
	post := &Post{
		Title:    "  Padded Title  ",
		Date:     " 2024-06-01 ",
		Category: " go ",
	}
	post.Normalize()

	assert.Equal(t, "Padded Title", post.Title)
	assert.Equal(t, "2024-06-01", post.Date)
	assert.Equal(t, "go", post.Category)
	assert.Equal(t, StatusDraft, post.Status)
	assert.False(t, post.IsPublished())

	published := &Post{Status: StatusPublished}
	published.Normalize()
	assert.Equal(t, StatusPublished, published.Status)
	assert.True(t, published.IsPublished())
}
