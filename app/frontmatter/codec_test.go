package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/app/models"
)

func TestDecode(t *testing.T) {
	t.Run("yaml block and body", func(t *testing.T) {
		text := "---\n" +
			"title: Emerald Lakes\n" +
			"description: A hike\n" +
			"date: 2024-01-01\n" +
			"category: travel\n" +
			"readTime: 5\n" +
			"status: published\n" +
			"image: /uploads/lake.jpg\n" +
			"---\n" +
			"# Day one\n\nWe walked.\n"

		post, err := Decode([]byte(text))
		require.NoError(t, err)
		assert.Equal(t, "Emerald Lakes", post.Title)
		assert.Equal(t, "A hike", post.Description)
		assert.Equal(t, "2024-01-01", post.Date)
		assert.Equal(t, "travel", post.Category)
		assert.Equal(t, models.ReadTime("5"), post.ReadTime)
		assert.Equal(t, models.StatusPublished, post.Status)
		assert.Equal(t, "/uploads/lake.jpg", post.Image)
		assert.Equal(t, "# Day one\n\nWe walked.\n", post.Content)
		assert.Empty(t, post.Slug)
	})

	t.Run("optional fields absent", func(t *testing.T) {
		post, err := Decode([]byte("---\ntitle: Plain\ndate: 2023-03-03\n---\nbody"))
		require.NoError(t, err)
		assert.Equal(t, models.Status(""), post.Status)
		assert.Empty(t, post.Image)
		assert.Equal(t, "body", post.Content)
	})

	t.Run("crlf delimiters", func(t *testing.T) {
		post, err := Decode([]byte("---\r\ntitle: Windows\r\n---\r\nbody\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Windows", post.Title)
		assert.Equal(t, "body\r\n", post.Content)
	})

	t.Run("closing delimiter at end of file", func(t *testing.T) {
		post, err := Decode([]byte("---\ntitle: No Body\n---"))
		require.NoError(t, err)
		assert.Equal(t, "No Body", post.Title)
		assert.Empty(t, post.Content)
	})

	t.Run("empty block", func(t *testing.T) {
		post, err := Decode([]byte("---\n---\nonly body\n"))
		require.NoError(t, err)
		assert.Empty(t, post.Title)
		assert.Equal(t, "only body\n", post.Content)
	})

	t.Run("no block", func(t *testing.T) {
		post, err := Decode([]byte("# Just markdown\n"))
		require.NoError(t, err)
		assert.Empty(t, post.Title)
		assert.Equal(t, "# Just markdown\n", post.Content)
	})

	t.Run("body opening with brace or plus signs", func(t *testing.T) {
		for _, text := range []string{
			"{{< shortcode >}}\nplain body\n",
			"+++ not toml, just a body line\n",
		} {
			post, err := Decode([]byte(text))
			require.NoError(t, err, text)
			assert.Empty(t, post.Title)
			assert.Equal(t, text, post.Content)
		}
	})

	t.Run("toml block", func(t *testing.T) {
		text := "+++\ntitle = \"From Hugo\"\ndate = \"2022-02-02\"\nreadTime = 4\n+++\nhugo body\n"
		post, err := Decode([]byte(text))
		require.NoError(t, err)
		assert.Equal(t, "From Hugo", post.Title)
		assert.Equal(t, "2022-02-02", post.Date)
		assert.Equal(t, models.ReadTime("4"), post.ReadTime)
		assert.Contains(t, post.Content, "hugo body")
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unterminated block", "---\ntitle: Open\nbody without end\n"},
		{"delimiter only", "---"},
		{"invalid yaml", "---\ntitle: [unclosed\n---\nbody\n"},
		{"sequence instead of mapping", "---\n- a\n- b\n---\nbody\n"},
		{"bad readTime", "---\nreadTime: [1, 2]\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := Decode([]byte(tt.text))
			assert.Nil(t, post)
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
		})
	}
}

func TestEncode(t *testing.T) {
	post := &models.Post{
		Slug:        "ignored",
		Title:       "My First Post",
		Description: "Intro",
		Date:        "2024-01-01",
		Category:    "general",
		ReadTime:    "3",
		Status:      models.StatusDraft,
		Content:     "Hello.\n",
	}

	out, err := Encode(post)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "title: My First Post\n")
	assert.Contains(t, text, "readTime: 3\n")
	assert.Contains(t, text, "status: draft\n")
	assert.NotContains(t, text, "image:")
	assert.NotContains(t, text, "ignored")
	assert.True(t, len(text) > 4 && text[:4] == "---\n")
	assert.Contains(t, text, "\n---\nHello.\n")
}

func TestRoundTrip(t *testing.T) {
	posts := []*models.Post{
		{
			Title:       "Hello, World!",
			Description: "first: with a colon",
			Date:        "2024-01-01",
			Category:    "notes",
			ReadTime:    "5",
			Status:      models.StatusPublished,
			Image:       "https://example.com/a.png",
			Content:     "# Heading\n\nSome *markdown*.\n",
		},
		{
			Title:    "Quotes \"and\" 'apostrophes'",
			Date:     "2023-12-31",
			ReadTime: "10 min",
			Content:  "",
		},
		{
			Title:       "Multi\nline title",
			Description: "---",
			Date:        "2020-02-29",
			ReadTime:    "2.5",
			Content:     "\nleading newline and no trailing one",
		},
		{
			Title:    "yes",
			Category: "123",
			Date:     "2021-01-01",
			Content:  "text with --- inside a line\n---not a delimiter\n",
		},
		{},
	}

	for _, want := range posts {
		t.Run(want.Title, func(t *testing.T) {
			out, err := Encode(want)
			require.NoError(t, err)

			got, err := Decode(out)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
