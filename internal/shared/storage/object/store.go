package object

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrInvalidPath is returned for paths that escape the store root.
var ErrInvalidPath = errors.New("invalid object path")

// Object describes a stored file. Path is opaque to callers and is what Open accepts.
type Object struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// UniqueName sanitizes fileName and prefixes it with a random id so uploads never collide.
func UniqueName(fileName string) (string, error) {
	sanitized, err := SanitizeName(fileName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", randomID(), sanitized), nil
}

// Sniff reads up to 512 bytes to detect the content type and returns a reader
// that replays them ahead of the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	buf := append([]byte(nil), head[:n]...)
	return http.DetectContentType(buf), io.MultiReader(bytes.NewReader(buf), r), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
