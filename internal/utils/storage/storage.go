package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

var AllowImage = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var ErrFileTypeNotAllowed = errors.New("file type not allowed")

// Storage keeps uploaded media and hands out public links for it.
type Storage interface {
	// UploadBytes stores data under folder/name plus the detected extension and
	// returns the object key.
	UploadBytes(ctx context.Context, name string, data []byte, folder string, allowTypes ...string) (string, error)
	DeleteFile(ctx context.Context, objectKey string) error
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
}

// objectKey sniffs data and builds the key it will be stored under.
func objectKey(name string, data []byte, folder string, allowTypes []string) (key string, contentType string, err error) {
	mtype := mimetype.Detect(data)
	if len(allowTypes) > 0 && !slices.ContainsFunc(allowTypes, mtype.Is) {
		return "", "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mtype.String())
	}
	key = name + mtype.Extension()
	if folder != "" {
		key = folder + "/" + key
	}
	return key, mtype.String(), nil
}
