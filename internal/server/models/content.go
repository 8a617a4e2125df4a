package models

import "time"

// Kind classifies what a stored content item holds.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindFile  Kind = "file"
)

// Content is the metadata index row for one stored object.
//
// ID is the backing store's handle verbatim; it is assigned by the store, not
// generated locally, and the row is only written after the store confirmed
// the physical write. Edits of text content touch the store only, never this
// row.
type Content struct {
	ID         string
	Kind       Kind
	UploaderID string
	CreatedAt  time.Time
}
