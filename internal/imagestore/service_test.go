package imagestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memImageRepo struct {
	images []domain.Image
}

func (m *memImageRepo) Create(_ context.Context, name, imageName, imageType string) (*domain.Image, error) {
	img := domain.Image{
		Seq:       int64(len(m.images) + 1),
		Name:      name,
		ImageName: imageName,
		ImageType: imageType,
	}
	m.images = append(m.images, img)
	return &img, nil
}

func (m *memImageRepo) FindByID(_ context.Context, id int64) (*domain.Image, error) {
	for i := range m.images {
		if m.images[i].Seq == id {
			return &m.images[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memImageRepo) FindByImageName(_ context.Context, imageName string) (*domain.Image, error) {
	for i := range m.images {
		if m.images[i].ImageName == imageName {
			return &m.images[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestSplitMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		wantTag   string
		wantExt   string
	}{
		{"image/png", "image", ".png"},
		{"image/jpeg", "image", ".jpeg"},
		{"video/mp4", "video", ".mp4"},
		{"application/pdf", "application", ".pdf"},
		{"weird", "weird", ""},
		{"image/", "image", ""},
	}
	for _, tt := range tests {
		tag, ext := SplitMediaType(tt.mediaType)
		assert.Equal(t, tt.wantTag, tag, tt.mediaType)
		assert.Equal(t, tt.wantExt, ext, tt.mediaType)
	}
}

func TestUploadAndOpen(t *testing.T) {
	ctx := context.Background()
	repo := &memImageRepo{}
	svc := NewService(repo, storage.NewAferoStore(afero.NewMemMapFs()))

	img, err := svc.Upload(ctx, "holiday.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "holiday.png", img.Name)
	assert.Equal(t, "image", img.ImageType)
	assert.True(t, strings.HasSuffix(img.ImageName, ".png"))
	assert.NotEqual(t, "holiday.png", img.ImageName)

	got, rc, err := svc.Open(ctx, img.ImageName)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, img.Seq, got.Seq)
}

func TestUploadVideoKeepsMediaTag(t *testing.T) {
	ctx := context.Background()
	repo := &memImageRepo{}
	svc := NewService(repo, storage.NewAferoStore(afero.NewMemMapFs()))

	img, err := svc.Upload(ctx, "clip.mp4", "video/mp4", strings.NewReader("mp4-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "video", img.ImageType)
	assert.True(t, strings.HasSuffix(img.ImageName, ".mp4"))
}

func TestOpenUnknownName(t *testing.T) {
	svc := NewService(&memImageRepo{}, storage.NewAferoStore(afero.NewMemMapFs()))
	_, _, err := svc.Open(context.Background(), "missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
