// Package media stores uploaded post and story images.
package media

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path images are served from
const URLPrefix = "/media/"

var (
	ErrNotFound = errors.New("media not found")
	ErrNotImage = errors.New("file is not an image")
)

// Object is an opened stored image
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// Store persists image bytes and returns an opaque reference
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (ref string, err error)
	Open(ctx context.Context, ref string) (*Object, error)
	Delete(ctx context.Context, ref string) error
}

// URL is the public address of ref
func URL(ref string) string {
	return URLPrefix + ref
}

// sniff reads the head of r to detect the content type and returns a reader that still yields every byte
func sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, err
	}
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrNotImage
	}
	return contentType, br, nil
}

// storedName gives uploads a unique name that keeps the original extension
func storedName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return uuid.NewString() + ext
}
