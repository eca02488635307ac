package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeBase64Image(t *testing.T) {
	raw, err := DecodeBase64Image(pixelPNG)
	if err != nil {
		t.Fatalf("bare base64: %v", err)
	}
	uri, err := DecodeBase64Image("data:image/png;base64," + pixelPNG)
	if err != nil {
		t.Fatalf("data uri: %v", err)
	}
	if string(raw) != string(uri) {
		t.Fatalf("bare and data uri payloads decode differently")
	}

	for _, bad := range []string{"", "data:image/png,abc", "not base64!!"} {
		if _, err := DecodeBase64Image(bad); !errors.Is(err, ErrInvalidImagePayload) {
			t.Fatalf("DecodeBase64Image(%q) err = %v, want ErrInvalidImagePayload", bad, err)
		}
	}
}

func TestLocalStorage_UploadLinkDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(root, "http://localhost:8080/media/")
	ctx := context.Background()

	data, err := DecodeBase64Image(pixelPNG)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	key, err := store.UploadBytes(ctx, "recipe-1", data, "recipes", AllowImage...)
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	if key != "recipes/recipe-1.png" {
		t.Fatalf("key = %q, want recipes/recipe-1.png", key)
	}
	if _, err := os.Stat(filepath.Join(root, "recipes", "recipe-1.png")); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	link := store.GetPublicLinkKey(key)
	if link != "http://localhost:8080/media/recipes/recipe-1.png" {
		t.Fatalf("link = %q", link)
	}
	if got := store.GetObjectKeyFromLink(link); got != key {
		t.Fatalf("GetObjectKeyFromLink = %q, want %q", got, key)
	}
	if got := store.GetObjectKeyFromLink("https://elsewhere/x.png"); got != "" {
		t.Fatalf("foreign link resolved to %q", got)
	}

	if err := store.DeleteFile(ctx, key); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := store.DeleteFile(ctx, key); err != nil {
		t.Fatalf("DeleteFile twice: %v", err)
	}
}

func TestLocalStorage_RejectsNonImage(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "/media")
	_, err := store.UploadBytes(context.Background(), "x", []byte("just some text"), "recipes", AllowImage...)
	if !errors.Is(err, ErrFileTypeNotAllowed) {
		t.Fatalf("err = %v, want ErrFileTypeNotAllowed", err)
	}
}
