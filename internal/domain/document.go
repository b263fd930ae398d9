package domain

import "time"

// SourceType represents how a document's content was obtained
type SourceType string

const (
	SourceTypeText SourceType = "text"
	SourceTypeURL  SourceType = "url"
	SourceTypeFile SourceType = "file"
)

// Document represents one ingested piece of content. It can be raw text,
// a fetched page, or an uploaded file. The raw content is kept for
// re-processing.
type Document struct {
	ID         string
	ChatboxID  string
	SourceType SourceType
	SourceName string
	SourceURL  string
	RawContent string

	FileSizeBytes int64
	MimeType      string
	// StorageKey points at the archived original bytes in object storage,
	// set only for file uploads when archival is configured.
	StorageKey string

	CreatedAt time.Time
}

// ValidateDocument validates a Document instance
func ValidateDocument(d *Document) error {
	if d == nil {
		return NewDomainError(ErrCodeValidation, "document cannot be nil")
	}
	if d.ID == "" {
		return NewDomainError(ErrCodeValidation, "document ID is required")
	}
	if d.ChatboxID == "" {
		return NewDomainError(ErrCodeValidation, "document ChatboxID is required")
	}
	if !isValidSourceType(d.SourceType) {
		return ErrInvalidSourceType
	}
	if d.RawContent == "" {
		return NewDomainError(ErrCodeValidation, "document RawContent is required")
	}
	return nil
}

func isValidSourceType(t SourceType) bool {
	switch t {
	case SourceTypeText, SourceTypeURL, SourceTypeFile:
		return true
	}
	return false
}
