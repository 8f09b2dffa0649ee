package signature

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// DirStore persists signature JPEGs on the local filesystem and returns
// relative references suitable for serving from a static directory.
type DirStore struct {
	dir string
}

// NewDirStore ensures the target directory exists.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create signature directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Save decodes an inline-encoded signature, downscales it, and writes it
// as a JPEG file. It returns the stored filename. Non-inline references
// are returned as-is without touching the filesystem.
func (s *DirStore) Save(ref string) (string, error) {
	if !IsDataURL(ref) {
		return ref, nil
	}

	data, err := DecodeDataURL(ref)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode signature image: %w", err)
	}
	resized := imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)

	name := uuid.NewString() + ".jpg"
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create signature file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return name, nil
}
