// Package uploads stores product and company images on local disk.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize caps a single upload at 5 MiB.
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedImage = errors.New("invalid file type, only JPEG and PNG are allowed")
	ErrImageTooLarge    = errors.New("image exceeds the 5 MiB limit")
	ErrMissingImage     = errors.New("image file is required")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Store writes images under Dir and returns paths rooted at the public prefix
// the router serves them from.
type Store struct {
	dir    string
	prefix string
	now    func() time.Time
	newID  func() string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "uploads"
	}
	return &Store{dir: dir, prefix: "uploads", now: time.Now, newID: uuid.NewString}
}

// Dir is the directory images are written to.
func (s *Store) Dir() string { return s.dir }

// SaveMultipart validates the part by size and sniffed content type, then
// writes it as <unix-nano>-<uuid><ext>.
func (s *Store) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrMissingImage
	}
	if fh.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return s.Save(src)
}

// Save stores an image read from r.
func (s *Store) Save(r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	ext, ok := extensions[http.DetectContentType(head)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), s.newID(), ext)
	target := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), io.LimitReader(r, MaxImageSize-int64(n)+1)))
	closeErr := dst.Close()
	if err == nil && written > MaxImageSize {
		err = ErrImageTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		if errors.Is(err, ErrImageTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(s.prefix, name), nil
}

// Remove deletes a stored image by the path Save returned. Missing files are ignored.
func (s *Store) Remove(stored string) error {
	name := path.Base(stored)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
