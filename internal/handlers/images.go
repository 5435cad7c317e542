package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/imagestore"
	"github.com/moatalk/moatalk/internal/middleware"
)

// ImageHandler handles chat media upload and download.
type ImageHandler struct {
	images imagestore.Service
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images imagestore.Service) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload handles POST /images. The client uploads the file first, then
// references the returned id from an image chat event.
func (h *ImageHandler) Upload(c echo.Context) error {
	if _, ok := middleware.CurrentUser(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	logger := middleware.FromContext(c.Request().Context())
	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not read upload")
	}
	defer src.Close()

	mediaType := fileHeader.Header.Get(echo.HeaderContentType)
	image, err := h.images.Upload(c.Request().Context(), fileHeader.Filename, mediaType, src)
	if err != nil {
		logger.Error("Failed to store upload", "filename", fileHeader.Filename, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store upload")
	}
	return c.JSON(http.StatusCreated, toImageResponse(image))
}

// Download handles GET /images/:image_name, streaming the stored bytes.
func (h *ImageHandler) Download(c echo.Context) error {
	if _, ok := middleware.CurrentUser(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	imageName := c.Param("image_name")

	image, rc, err := h.images.Open(c.Request().Context(), imageName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		middleware.FromContext(c.Request().Context()).Error("Failed to open stored image", "imageName", imageName, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not read image")
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(image.ImageName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
