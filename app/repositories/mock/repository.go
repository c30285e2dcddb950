package mock

import (
	"sort"
	"sync"

	"folio/app/models"
	"folio/app/repositories"
)

// PostRepository is an in-memory PostRepository with the same slug, conflict
// and ordering rules as the file-backed one.
type PostRepository struct {
	posts map[string]*models.Post
	order []string
	mutex sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

type MediaRepository struct {
	media map[string]*models.Media
	mutex sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]*models.Post),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.order = nil
}

func NewMediaRepository() *MediaRepository {
	return &MediaRepository{
		media: make(map[string]*models.Media),
	}
}

// PostRepository implementation
func (m *PostRepository) List() ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	posts := make([]*models.Post, 0, len(m.order))
	for _, slug := range m.order {
		cp := *m.posts[slug]
		posts = append(posts, &cp)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
	return posts, nil
}

func (m *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	post, exists := m.posts[slug]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (m *PostRepository) Create(post *models.Post) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	slug := models.DeriveSlug(post.Title)
	if slug == "" {
		return "", repositories.ErrInvalidSlug
	}
	if _, exists := m.posts[slug]; exists {
		return "", repositories.ErrConflict
	}
	post.Slug = slug
	cp := *post
	m.posts[slug] = &cp
	m.order = append(m.order, slug)
	return slug, nil
}

func (m *PostRepository) Update(slug string, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.posts[slug]; !exists {
		return repositories.ErrNotFound
	}
	post.Slug = slug
	cp := *post
	m.posts[slug] = &cp
	return nil
}

func (m *PostRepository) Delete(slug string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.posts[slug]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, slug)
	for i, s := range m.order {
		if s == slug {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MediaRepository implementation
func (m *MediaRepository) Create(media *models.Media) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.media[media.Name]; exists {
		return repositories.ErrConflict
	}
	cp := *media
	m.media[media.Name] = &cp
	return nil
}

func (m *MediaRepository) GetByName(name string) (*models.Media, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	media, exists := m.media[name]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *media
	return &cp, nil
}

func (m *MediaRepository) List() ([]*models.Media, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	items := make([]*models.Media, 0, len(m.media))
	for _, media := range m.media {
		cp := *media
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].UploadedAt.Equal(items[j].UploadedAt) {
			return items[i].Name < items[j].Name
		}
		return items[i].UploadedAt.After(items[j].UploadedAt)
	})
	return items, nil
}

func (m *MediaRepository) Delete(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.media[name]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.media, name)
	return nil
}
