package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidImagePayload = errors.New("invalid base64 image payload")

// DecodeBase64Image accepts either a data URI ("data:image/png;base64,....")
// or bare base64 and returns the raw bytes.
func DecodeBase64Image(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrInvalidImagePayload
		}
		payload = body
	}
	if payload == "" {
		return nil, ErrInvalidImagePayload
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImagePayload
	}
	return data, nil
}
