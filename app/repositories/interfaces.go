package repositories

import "folio/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	List() ([]*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	Create(post *models.Post) (string, error)
	Update(slug string, post *models.Post) error
	Delete(slug string) error
}

// MediaRepository defines the interface for the upload index
type MediaRepository interface {
	Create(media *models.Media) error
	GetByName(name string) (*models.Media, error)
	List() ([]*models.Media, error)
	Delete(name string) error
}
