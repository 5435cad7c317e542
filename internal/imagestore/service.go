package imagestore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/storage"
)

// Service defines the interface for upload and download of chat media.
type Service interface {
	// Upload saves the content under a collision-free name and records its
	// metadata. The returned record's id is what image messages reference.
	Upload(ctx context.Context, originalFilename, mediaType string, content io.Reader) (*domain.Image, error)

	// Open resolves a stored name to its metadata and a reader over the bytes.
	Open(ctx context.Context, imageName string) (*domain.Image, io.ReadCloser, error)
}

type serviceImpl struct {
	repo  domain.ImageRepository
	store storage.Store
}

// NewService creates a media service over the given metadata repository and
// storage backend.
func NewService(repo domain.ImageRepository, store storage.Store) Service {
	return &serviceImpl{repo: repo, store: store}
}

// SplitMediaType derives the stored media tag and file extension from a MIME
// media type: "video/mp4" yields ("video", ".mp4"). A bare type with no
// subtype yields an empty extension.
func SplitMediaType(mediaType string) (tag, ext string) {
	tag, subtype, found := strings.Cut(mediaType, "/")
	if !found || subtype == "" {
		return tag, ""
	}
	return tag, "." + subtype
}

// Upload saves the bytes first and the metadata second, so a metadata row
// never points at a file that does not exist.
func (s *serviceImpl) Upload(ctx context.Context, originalFilename, mediaType string, content io.Reader) (*domain.Image, error) {
	tag, ext := SplitMediaType(mediaType)
	storedName := uuid.NewString() + ext

	if _, err := s.store.Save(ctx, storedName, content); err != nil {
		return nil, fmt.Errorf("failed to save media content: %w", err)
	}

	image, err := s.repo.Create(ctx, originalFilename, storedName, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to record media metadata: %w", err)
	}
	return image, nil
}

// Open returns the metadata record and the stored bytes for a name.
func (s *serviceImpl) Open(ctx context.Context, imageName string) (*domain.Image, io.ReadCloser, error) {
	image, err := s.repo.FindByImageName(ctx, imageName)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Get(ctx, image.ImageName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open media content: %w", err)
	}
	return image, rc, nil
}
