// Package frontmatter converts between post files and models.Post values.
//
// A post file is a YAML metadata block between two "---" lines followed by
// the markdown body. Files written by other tools with TOML ("+++") or JSON
// frontmatter can be read as well; writes always produce YAML.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"folio/app/models"
)

const delimiter = "---"

// ParseError reports a malformed metadata block.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frontmatter: %s: %v", e.Reason, e.Err)
	}
	return "frontmatter: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decode splits text into metadata and body. The returned post has no slug;
// the caller owns the file name.
func Decode(text []byte) (*models.Post, error) {
	block, body, found, err := splitYAML(text)
	if err != nil {
		return nil, err
	}
	if found {
		return decodeYAML(block, body)
	}
	if hasForeignFrontMatter(text) {
		return decodeForeign(text)
	}
	// No metadata block at all: the whole document is the body.
	return &models.Post{Content: string(text)}, nil
}

// Encode renders the post as a YAML block followed by the unmodified body.
func Encode(post *models.Post) ([]byte, error) {
	meta, err := yaml.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: encode metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(meta) + len(post.Content) + 8)
	buf.WriteString(delimiter + "\n")
	buf.Write(meta)
	buf.WriteString(delimiter + "\n")
	buf.WriteString(post.Content)
	return buf.Bytes(), nil
}

// splitYAML looks for a "---" first line and the next "---" line. found is
// false when the document does not open with a block.
func splitYAML(text []byte) (block, body []byte, found bool, err error) {
	first, rest, _ := nextLine(text)
	if string(first) != delimiter {
		return nil, nil, false, nil
	}

	offset := len(text) - len(rest)
	for len(rest) > 0 {
		line, after, _ := nextLine(rest)
		if string(line) == delimiter {
			end := len(text) - len(rest)
			return text[offset:end], after, true, nil
		}
		rest = after
	}
	return nil, nil, true, &ParseError{Reason: "unterminated metadata block"}
}

// nextLine returns the first line of b without its line ending and the
// remainder after the line ending. ok is false when b has no line ending.
func nextLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return bytes.TrimSuffix(b, []byte("\r")), nil, false
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
}

func decodeYAML(block, body []byte) (*models.Post, error) {
	post := &models.Post{}
	if len(bytes.TrimSpace(block)) > 0 {
		if err := yaml.Unmarshal(block, post); err != nil {
			return nil, &ParseError{Reason: "invalid metadata", Err: err}
		}
	}
	post.Content = string(body)
	return post, nil
}

func hasForeignFrontMatter(text []byte) bool {
	trimmed := bytes.TrimLeft(text, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("+++")) || bytes.HasPrefix(trimmed, []byte("{"))
}

func decodeForeign(text []byte) (*models.Post, error) {
	post := &models.Post{}
	body, err := frontmatter.MustParse(bytes.NewReader(text), post)
	if errors.Is(err, frontmatter.ErrNotFound) {
		// A body that merely opens with "{" or "+++" carries no metadata.
		return &models.Post{Content: string(text)}, nil
	}
	if err != nil {
		return nil, &ParseError{Reason: "invalid metadata", Err: err}
	}
	post.Content = string(body)
	return post, nil
}
