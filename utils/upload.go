package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrNotImage rejects uploads whose content does not sniff as an image.
	ErrNotImage = errors.New("upload a valid image; the file was either not an image or corrupted")
	// ErrUploadTooLarge rejects uploads above the configured limit.
	ErrUploadTooLarge = errors.New("uploaded file is too large")
)

var unsafeNameChars = regexp.MustCompile(`[^-\w.]`)

// Upload is a validated image held in memory until it is stored.
type Upload struct {
	Name string
	Data []byte
	MIME string
}

// ReadImage loads a multipart file and checks that it is an image no larger than maxBytes.
func ReadImage(fh *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, ErrUploadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	r := io.Reader(f)
	if maxBytes > 0 {
		r = &io.LimitedReader{R: f, N: maxBytes + 1}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrUploadTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotImage
	}
	return &Upload{Name: cleanFilename(fh.Filename), Data: data, MIME: mt.String()}, nil
}

// SaveUpload writes u under root/dir and returns the stored path relative to root,
// e.g. "posts/small.gif". An existing file is never overwritten; a short suffix is added instead.
func SaveUpload(root, dir string, u *Upload) (string, error) {
	base := filepath.Join(root, dir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := u.Name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for attempt := 0; attempt < 10; attempt++ {
		f, err := os.OpenFile(filepath.Join(base, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			name = fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:7], ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create upload: %w", err)
		}
		if _, err := f.Write(u.Data); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write upload: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close upload: %w", err)
		}
		return path.Join(dir, name), nil
	}
	return "", fmt.Errorf("no free file name for %s", u.Name)
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = unsafeNameChars.ReplaceAllString(name, "")
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}
