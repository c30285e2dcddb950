package repositories

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"folio/app/frontmatter"
	"folio/app/logger"
	"folio/app/models"
)

// PostFileExt is the extension of every post file in the content directory.
const PostFileExt = ".md"

// FilePostRepository implements PostRepository on a directory of markdown
// files, one file per slug. Nothing is cached: every call goes to disk.
type FilePostRepository struct {
	dir string
}

// NewFilePostRepository creates the content directory if needed.
func NewFilePostRepository(dir string) (*FilePostRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "init", Key: dir, Err: err}
	}
	return &FilePostRepository{dir: dir}, nil
}

// Dir returns the content directory.
func (r *FilePostRepository) Dir() string {
	return r.dir
}

func (r *FilePostRepository) path(slug string) string {
	return filepath.Join(r.dir, slug+PostFileExt)
}

// List returns every post sorted by date, newest first. Posts sharing a date
// keep directory order. Files that cannot be read or decoded are skipped.
func (r *FilePostRepository) List() ([]*models.Post, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []*models.Post{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "list", Key: r.dir, Err: err}
	}

	posts := make([]*models.Post, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != PostFileExt {
			continue
		}
		slug := strings.TrimSuffix(name, PostFileExt)
		if !models.IsValidSlug(slug) {
			logger.Warn("skipping post file with invalid slug", zap.String("file", name))
			continue
		}

		post, err := r.read(slug)
		if err != nil {
			logger.Warn("skipping unreadable post", zap.String("file", name), zap.Error(err))
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
	return posts, nil
}

// GetBySlug reads a single post
func (r *FilePostRepository) GetBySlug(slug string) (*models.Post, error) {
	if !models.IsValidSlug(slug) {
		return nil, ErrNotFound
	}
	return r.read(slug)
}

func (r *FilePostRepository) read(slug string) (*models.Post, error) {
	data, err := os.ReadFile(r.path(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Key: slug, Err: err}
	}

	post, err := frontmatter.Decode(data)
	if err != nil {
		return nil, err
	}
	post.Slug = slug
	return post, nil
}

// Create derives the slug from the title and writes a new file. An existing
// file with the same slug is never overwritten.
func (r *FilePostRepository) Create(post *models.Post) (string, error) {
	slug := models.DeriveSlug(post.Title)
	if slug == "" {
		return "", ErrInvalidSlug
	}

	data, err := frontmatter.Encode(post)
	if err != nil {
		return "", err
	}

	path := r.path(slug)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return "", ErrConflict
	}
	if err != nil {
		return "", &StorageError{Op: "create", Key: slug, Err: err}
	}

	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", &StorageError{Op: "create", Key: slug, Err: err}
	}

	post.Slug = slug
	return slug, nil
}

// Update replaces the whole file of an existing post. The slug never changes.
func (r *FilePostRepository) Update(slug string, post *models.Post) error {
	if !models.IsValidSlug(slug) {
		return ErrNotFound
	}

	path := r.path(slug)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	} else if err != nil {
		return &StorageError{Op: "update", Key: slug, Err: err}
	}

	data, err := frontmatter.Encode(post)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &StorageError{Op: "update", Key: slug, Err: err}
	}

	post.Slug = slug
	return nil
}

// Delete removes the post file
func (r *FilePostRepository) Delete(slug string) error {
	if !models.IsValidSlug(slug) {
		return ErrNotFound
	}

	err := os.Remove(r.path(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "delete", Key: slug, Err: err}
	}
	return nil
}
