package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// Keyset cursors for list endpoints. A cursor names the last row the client
// saw, as "<id>|<RFC3339Nano timestamp>", base64url-encoded so it survives a
// round trip through a query string. Clients treat it as opaque.

var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is the decoded position of the last item on the previous page.
type Cursor struct {
	LastID    string
	Timestamp time.Time
}

// EncodeCursor builds the opaque cursor for the given row. An empty id
// yields an empty cursor, meaning no further pages.
func EncodeCursor(lastID string, ts time.Time) string {
	if lastID == "" {
		return ""
	}
	payload := lastID + "|" + ts.UTC().Format(time.RFC3339Nano)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// DecodeCursor parses an opaque cursor. An empty string decodes to a nil
// cursor, which callers interpret as the first page.
func DecodeCursor(raw string) (*Cursor, error) {
	if raw == "" {
		return nil, nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	id, tsPart, found := strings.Cut(string(payload), "|")
	if !found || id == "" {
		return nil, ErrInvalidCursor
	}

	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &Cursor{LastID: id, Timestamp: ts}, nil
}
