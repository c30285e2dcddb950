package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"folio/app/logger"
	"folio/app/models"
	"folio/app/repositories"
)

// DefaultMaxUploadBytes caps a single image upload at 5 MiB.
const DefaultMaxUploadBytes int64 = 5 << 20

// MediaOptions controls where uploads are written and how they are addressed.
type MediaOptions struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

// MediaService stores uploaded images and keeps the media index in step.
type MediaService struct {
	repo repositories.MediaRepository
	opts MediaOptions
	now  func() time.Time
}

func NewMediaService(repo repositories.MediaRepository, opts MediaOptions) *MediaService {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxUploadBytes
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/uploads"
	}
	return &MediaService{repo: repo, opts: opts, now: time.Now}
}

// MaxBytes is the largest accepted upload.
func (s *MediaService) MaxBytes() int64 {
	return s.opts.MaxBytes
}

// Save sniffs the uploaded file, copies it into the upload directory under a
// random name and records it in the media index.
func (s *MediaService) Save(fh *multipart.FileHeader) (*models.Media, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if fh.Size > s.opts.MaxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	// The stored name takes its extension from the sniffed type so the file
	// server never picks a content type the client chose.
	name := uuid.NewString() + mtype.Extension()

	size, err := s.write(name, src)
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		Name:         name,
		OriginalName: filepath.Base(fh.Filename),
		ContentType:  mtype.String(),
		Size:         size,
		URL:          strings.TrimSuffix(s.opts.URLPrefix, "/") + "/" + name,
		UploadedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(media); err != nil {
		os.Remove(filepath.Join(s.opts.Dir, name))
		return nil, err
	}

	logger.Info("image uploaded",
		zap.String("name", name),
		zap.String("original", media.OriginalName),
		zap.Int64("size", size),
	)
	return media, nil
}

func (s *MediaService) write(name string, src io.Reader) (int64, error) {
	if err := os.MkdirAll(s.opts.Dir, 0755); err != nil {
		return 0, &repositories.StorageError{Op: "upload", Key: s.opts.Dir, Err: err}
	}

	path := filepath.Join(s.opts.Dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, &repositories.StorageError{Op: "upload", Key: name, Err: err}
	}

	// One extra byte tells an oversized body apart from one exactly at the limit.
	size, err := io.Copy(dst, io.LimitReader(src, s.opts.MaxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size > s.opts.MaxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, ErrFileTooLarge) {
			return 0, err
		}
		return 0, &repositories.StorageError{Op: "upload", Key: name, Err: err}
	}
	return size, nil
}

// List returns the media index, newest upload first.
func (s *MediaService) List() ([]*models.Media, error) {
	return s.repo.List()
}

// Delete removes an upload from disk and from the index.
func (s *MediaService) Delete(name string) error {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return repositories.ErrNotFound
	}
	if _, err := s.repo.GetByName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.opts.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &repositories.StorageError{Op: "delete upload", Key: name, Err: err}
	}
	if err := s.repo.Delete(name); err != nil {
		return err
	}

	logger.Info("image deleted", zap.String("name", name))
	return nil
}
