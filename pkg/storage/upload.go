package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImageExtensions are the upload extensions accepted for catalog images.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// UploadError describes a rejected upload; it never wraps an I/O failure.
type UploadError struct {
	Filename string
	Reason   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Reason)
}

// CheckImage rejects files over maxBytes or with a non-image extension.
func CheckImage(fh *multipart.FileHeader, maxBytes int64) error {
	ext := strings.ToLower(path.Ext(fh.Filename))
	allowed := false
	for _, e := range ImageExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return &UploadError{Filename: fh.Filename, Reason: "must be a jpg, jpeg, png, webp or gif image"}
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return &UploadError{Filename: fh.Filename, Reason: fmt.Sprintf("must not be larger than %d KB", maxBytes/1024)}
	}
	return nil
}

// StoreImage validates fh and writes it under dir with a random name,
// returning the stored path.
func StoreImage(ctx context.Context, d Disk, dir string, fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if err := CheckImage(fh, maxBytes); err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()

	p := path.Join(strings.Trim(dir, "/"), uuid.NewString()+strings.ToLower(path.Ext(fh.Filename)))
	if err := d.Put(ctx, p, f); err != nil {
		return "", err
	}
	return p, nil
}
