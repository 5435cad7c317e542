package database

import (
	"context"

	"github.com/moatalk/moatalk/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// ImageStore implements domain.ImageRepository on SurrealDB. Only metadata
// lives here; the bytes are owned by the storage backend.
type ImageStore struct {
	db *surrealdb.DB
}

// NewImageStore creates a new image metadata repository.
func NewImageStore(db *surrealdb.DB) domain.ImageRepository {
	return &ImageStore{db: db}
}

const createImageQuery = `
BEGIN TRANSACTION;
LET $n = (UPSERT seq:image SET value += 1 RETURN AFTER)[0].value;
LET $image = CREATE type::thing('image', $n) CONTENT {
	seq: $n,
	name: $name,
	image_name: $image_name,
	image_type: $image_type
};
RETURN $image;
COMMIT TRANSACTION;
`

// Create persists a new image metadata record.
func (s *ImageStore) Create(ctx context.Context, name, imageName, imageType string) (*domain.Image, error) {
	params := map[string]any{
		"name":       name,
		"image_name": imageName,
		"image_type": imageType,
	}
	image, err := QueryOne[domain.Image](ctx, s.db, createImageQuery, params)
	if err != nil {
		return nil, NewDBError(err, "failed to create image record")
	}
	if image == nil {
		return nil, NewDBError(ErrQueryFailed, "create image returned no record")
	}
	return image, nil
}

// FindByID returns the image with the given numeric id, or domain.ErrNotFound.
func (s *ImageStore) FindByID(ctx context.Context, id int64) (*domain.Image, error) {
	query := `SELECT * FROM image WHERE id = type::thing('image', $id)`
	image, err := QueryOne[domain.Image](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, NewDBError(err, "failed to find image").WithQuery(query)
	}
	if image == nil {
		return nil, domain.ErrNotFound
	}
	return image, nil
}

// FindByImageName returns the image record for a stored file name.
func (s *ImageStore) FindByImageName(ctx context.Context, imageName string) (*domain.Image, error) {
	query := `SELECT * FROM image WHERE image_name = $image_name`
	image, err := QueryOne[domain.Image](ctx, s.db, query, map[string]any{"image_name": imageName})
	if err != nil {
		return nil, NewDBError(err, "failed to find image by name").WithQuery(query)
	}
	if image == nil {
		return nil, domain.ErrNotFound
	}
	return image, nil
}
