// Package storage keeps uploaded INR report scans and profile pictures.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	CategoryINRReport      = "inr-reports"
	CategoryProfilePicture = "profile-pictures"

	DefaultMaxFileSize = 10 * 1024 * 1024
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrUnknownCategory    = errors.New("unknown file category")
)

// allowedContentTypes maps each category to the accepted MIME types and the
// extension the stored file gets.
var allowedContentTypes = map[string]map[string]string{
	CategoryINRReport: {
		"application/pdf": ".pdf",
		"image/png":       ".png",
		"image/jpeg":      ".jpg",
	},
	CategoryProfilePicture: {
		"image/png":  ".png",
		"image/jpeg": ".jpg",
	},
}

var extensionContentTypes = map[string]string{
	".pdf": "application/pdf",
	".png": "image/png",
	".jpg": "image/jpeg",
}

var keyPattern = regexp.MustCompile(`^(inr-reports|profile-pictures)/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(pdf|png|jpg)$`)

type StoredFile struct {
	Key         string
	ContentType string
	Size        int64
}

type Store interface {
	Save(category string, contentType string, content io.Reader) (StoredFile, error)
	Open(key string) (io.ReadCloser, StoredFile, error)
}

// LocalStore writes files under root, one directory per category.
type LocalStore struct {
	root    string
	maxSize int64
}

func NewLocalStore(root string, maxSize int64) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root is required")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	for category := range allowedContentTypes {
		if err := os.MkdirAll(filepath.Join(root, category), 0o750); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return &LocalStore{root: root, maxSize: maxSize}, nil
}

func NormalizeContentType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if index := strings.Index(value, ";"); index >= 0 {
		value = strings.TrimSpace(value[:index])
	}
	if value == "image/jpg" {
		return "image/jpeg"
	}
	return value
}

func (store *LocalStore) Save(category string, contentType string, content io.Reader) (StoredFile, error) {
	allowed, ok := allowedContentTypes[category]
	if !ok {
		return StoredFile{}, ErrUnknownCategory
	}
	normalized := NormalizeContentType(contentType)
	extension, ok := allowed[normalized]
	if !ok {
		return StoredFile{}, ErrInvalidContentType
	}

	key := category + "/" + uuid.NewString() + extension
	path := store.pathFor(key)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create stored file: %w", err)
	}

	written, copyErr := io.Copy(file, io.LimitReader(content, store.maxSize+1))
	closeErr := file.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("write stored file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("close stored file: %w", closeErr)
	case written > store.maxSize:
		_ = os.Remove(path)
		return StoredFile{}, ErrFileTooLarge
	}

	return StoredFile{Key: key, ContentType: normalized, Size: written}, nil
}

// Open rejects any key this store could not have produced, which also keeps
// callers from escaping the storage root.
func (store *LocalStore) Open(key string) (io.ReadCloser, StoredFile, error) {
	if !keyPattern.MatchString(key) {
		return nil, StoredFile{}, ErrFileNotFound
	}

	file, err := os.Open(store.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, StoredFile{}, ErrFileNotFound
		}
		return nil, StoredFile{}, fmt.Errorf("open stored file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, StoredFile{}, fmt.Errorf("stat stored file: %w", err)
	}

	return file, StoredFile{
		Key:         key,
		ContentType: extensionContentTypes[filepath.Ext(key)],
		Size:        info.Size(),
	}, nil
}

// Category returns the category prefix of a stored key.
func Category(key string) string {
	category, _, found := strings.Cut(key, "/")
	if !found {
		return ""
	}
	return category
}

func (store *LocalStore) pathFor(key string) string {
	return filepath.Join(store.root, filepath.FromSlash(key))
}
