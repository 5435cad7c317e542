package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Image is the metadata record for an uploaded file. The bytes themselves
// live in the configured storage backend under ImageName; messages only
// hold a reference to this record.
type Image struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Seq       int64                   `json:"seq"`
	Name      string                  `json:"name"`
	ImageName string                  `json:"image_name"`
	ImageType string                  `json:"image_type"`
}

// ImageRepository defines the contract for image metadata storage.
type ImageRepository interface {
	// Create persists a new image metadata record and returns it with its
	// assigned id.
	Create(ctx context.Context, name, imageName, imageType string) (*Image, error)

	// FindByID fails with ErrNotFound when no image has the given id.
	FindByID(ctx context.Context, id int64) (*Image, error)

	// FindByImageName fails with ErrNotFound when no image record points
	// at the given stored name.
	FindByImageName(ctx context.Context, imageName string) (*Image, error)
}
