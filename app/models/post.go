package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// Normalize trims the fields a form usually pads and applies the default status.
func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Date = strings.TrimSpace(p.Date)
	p.Category = strings.TrimSpace(p.Category)
	p.Image = strings.TrimSpace(p.Image)
	if p.Status == "" {
		p.Status = StatusDraft
	}
}

// IsPublished reports whether the post is visible to readers.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}
