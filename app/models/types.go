package models

var validate = newValidator()

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post represents a single blog entry. Everything except Slug and Content is
// stored in the frontmatter block of the post's file; Slug is the file name
// stem and Content is the markdown body that follows the block.
type Post struct {
	Slug        string   `json:"slug" yaml:"-" toml:"-" validate:"-"`
	Title       string   `json:"title" yaml:"title" toml:"title" validate:"required,max=200"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Date        string   `json:"date" yaml:"date" toml:"date" validate:"required,datetime=2006-01-02"`
	Category    string   `json:"category" yaml:"category" toml:"category"`
	ReadTime    ReadTime `json:"readTime" yaml:"readTime" toml:"readTime"`
	Status      Status   `json:"status,omitempty" yaml:"status,omitempty" toml:"status" validate:"omitempty,oneof=draft published"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty" toml:"image" validate:"omitempty,uri"`
	Content     string   `json:"content" yaml:"-" toml:"-" validate:"-"`
}
