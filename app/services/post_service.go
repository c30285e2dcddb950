package services

import (
	"errors"

	"go.uber.org/zap"

	"folio/app/logger"
	"folio/app/models"
	"folio/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	renderer *Renderer
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		renderer: NewRenderer(),
	}
}

// CreatePost validates the post and writes it under a slug derived from its
// title. The slug is returned and also set on post.
func (s *PostService) CreatePost(post *models.Post) (string, error) {
	if err := prepare(post); err != nil {
		return "", err
	}

	slug, err := s.postRepo.Create(post)
	if errors.Is(err, repositories.ErrInvalidSlug) {
		return "", &ValidationError{Problems: []string{"title must contain at least one letter or digit"}, Err: err}
	}
	if err != nil {
		return "", err
	}

	logger.Info("post created", zap.String("slug", slug))
	return slug, nil
}

// GetPost retrieves a post by slug
func (s *PostService) GetPost(slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(slug)
}

// ListPosts returns every post, newest first, narrowed by query when it is
// not empty.
func (s *PostService) ListPosts(query string) ([]*models.Post, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, err
	}
	return FilterPosts(posts, query), nil
}

// UpdatePost replaces the post stored under slug
func (s *PostService) UpdatePost(slug string, post *models.Post) error {
	if err := prepare(post); err != nil {
		return err
	}
	if err := s.postRepo.Update(slug, post); err != nil {
		return err
	}

	logger.Info("post updated", zap.String("slug", slug))
	return nil
}

// DeletePost removes a post
func (s *PostService) DeletePost(slug string) error {
	if err := s.postRepo.Delete(slug); err != nil {
		return err
	}

	logger.Info("post deleted", zap.String("slug", slug))
	return nil
}

// RenderPost converts the post body to HTML.
func (s *PostService) RenderPost(post *models.Post) (string, error) {
	return s.renderer.Render(post.Content)
}

func prepare(post *models.Post) error {
	post.Normalize()
	if err := post.Validate(); err != nil {
		return newValidationError(err)
	}
	return nil
}
