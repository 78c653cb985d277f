package shopserver

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/clothes-shop-api/internal/platform/uploads"
	apierrors "github.com/Apurer/clothes-shop-api/internal/shared/errors"
)

// ImageStore persists uploaded images and returns their public path.
type ImageStore interface {
	SaveMultipart(fh *multipart.FileHeader) (string, error)
	Remove(stored string) error
}

// saveImage stores the "image" form file. With required unset a missing file
// yields an empty path and no error.
func saveImage(c *gin.Context, images ImageStore, required bool) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			if required {
				return "", uploads.ErrMissingImage
			}
			return "", nil
		}
		return "", apierrors.ErrBadRequest.WithDetail(err.Error())
	}
	return images.SaveMultipart(file)
}

// discardImage removes an image whose owning write failed.
func discardImage(images ImageStore, stored string) {
	if stored != "" {
		_ = images.Remove(stored)
	}
}
