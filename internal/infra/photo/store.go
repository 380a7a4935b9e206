package photo

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

const (
	MaxSide  = 512
	MaxBytes = 10 << 20

	photoFile = "photo.webp"
	quality   = 85
)

// Store writes one WebP portrait per patient under
// <data>/patients/<id>/photo/photo.webp.
type Store struct {
	base string
}

func NewStore(dataDir string) *Store {
	return &Store{base: filepath.Join(dataDir, "patients")}
}

func (s *Store) dir(id uuid.UUID) string {
	return filepath.Join(s.base, id.String(), "photo")
}

// Save decodes jpeg, png, bmp or webp, shrinks the image so neither side
// exceeds MaxSide and re-encodes it. It returns the stored path.
func (s *Store) Save(ctx context.Context, id uuid.UUID, r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", httperr.IO("photo_read_failed", "The photo could not be read.", err)
	}
	if len(raw) > MaxBytes {
		return "", httperr.Validation("photo_too_large", "The photo cannot exceed 10 MB.")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", httperr.Validation("invalid_photo", "The photo must be a JPEG, PNG, BMP or WebP image.")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, Fit(src, MaxSide), &webp.Options{Quality: quality}); err != nil {
		return "", httperr.IO("photo_encode_failed", "The photo could not be processed.", err)
	}

	dir := s.dir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", httperr.IO("photo_write_failed", "The photo could not be stored.", err)
	}

	path := filepath.Join(dir, photoFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", httperr.IO("photo_write_failed", "The photo could not be stored.", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", httperr.IO("photo_write_failed", "The photo could not be stored.", err)
	}

	return path, nil
}

func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.dir(id)); err != nil {
		return httperr.IO("photo_remove_failed", "The photo could not be removed.", err)
	}
	return nil
}

// Fit scales src down, keeping its aspect ratio, so the longer side is at
// most limit. Smaller images are returned as they are.
func Fit(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return src
	}

	nw, nh := limit, limit
	if w > h {
		nh = h * limit / w
	} else {
		nw = w * limit / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
