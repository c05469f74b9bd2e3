package utils

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestReadImageAcceptsGIF(t *testing.T) {
	u, err := ReadImage(fileHeader(t, "small.gif", smallGIF), 1<<20)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if u.MIME != "image/gif" || u.Name != "small.gif" {
		t.Fatalf("unexpected upload: %+v", u)
	}
}

func TestReadImageRejectsText(t *testing.T) {
	_, err := ReadImage(fileHeader(t, "notes.gif", []byte("plain text pretending")), 1<<20)
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

func TestReadImageRejectsOversize(t *testing.T) {
	_, err := ReadImage(fileHeader(t, "small.gif", smallGIF), 10)
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
}

func TestSaveUploadKeepsNameAndAvoidsCollisions(t *testing.T) {
	root := t.TempDir()
	u := &Upload{Name: "small.gif", Data: smallGIF}

	first, err := SaveUpload(root, "posts", u)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first != "posts/small.gif" {
		t.Fatalf("expected posts/small.gif, got %s", first)
	}
	if b, _ := os.ReadFile(filepath.Join(root, "posts", "small.gif")); !bytes.Equal(b, smallGIF) {
		t.Fatalf("stored bytes differ")
	}

	second, err := SaveUpload(root, "posts", u)
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if second == first || filepath.Ext(second) != ".gif" {
		t.Fatalf("expected a distinct .gif name, got %s", second)
	}
}

func TestCleanFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"my photo.png":     "my_photo.png",
		"":                 "upload",
		`C:\pics\cat.jpg`:  "cat.jpg",
	}
	for in, want := range cases {
		if got := cleanFilename(in); got != want {
			t.Errorf("cleanFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
