// Package pagination encodes keyset cursors for list endpoints.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// ErrInvalidToken is returned for a token this package did not produce.
var ErrInvalidToken = errors.New("invalid pagination token")

// Cursor is the sort key of the last row on a page: its timestamp and row ID.
type Cursor struct {
	At time.Time
	ID string
}

// Encode returns an opaque, URL-safe token for the row after which the next page starts.
func Encode(at time.Time, id string) string {
	raw := at.UTC().Format(timeFormat) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	at, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return Cursor{}, ErrInvalidToken
	}
	t, err := time.Parse(timeFormat, at)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Cursor{At: t, ID: id}, nil
}
