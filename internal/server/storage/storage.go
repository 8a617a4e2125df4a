// Package storage defines the backing-store contract the content gateway
// depends on, together with the channel (Discord) and S3 drivers.
//
// Handles are opaque strings assigned by the store; the metadata index
// records them verbatim. A store never invents a handle for the caller.
package storage

import (
	"context"
	"io"
)

// Object is the live state of one stored item. Text carries inline content
// for text items; AttachmentURL is the store's direct object URL used as the
// redirect target for binary items.
type Object struct {
	Text          string
	AttachmentURL string
}

// Store is the narrow collaborator interface over the physical store.
//
// Fetch, EditText, and Remove report common.ErrNotFoundInStorage when the
// handle does not resolve anymore; the gateway passes that through to the
// caller instead of repairing the index.
type Store interface {
	// SendText stores inline text and returns the store-assigned handle.
	SendText(ctx context.Context, text string) (string, error)

	// SendFile stores a binary payload under its filename and returns the
	// store-assigned handle.
	SendFile(ctx context.Context, filename, mimeType string, r io.Reader, size int64) (string, error)

	// Fetch returns the live object for a handle.
	Fetch(ctx context.Context, handle string) (*Object, error)

	// EditText replaces the inline content of a text item in place.
	EditText(ctx context.Context, handle, text string) error

	// Remove deletes the physical object.
	Remove(ctx context.Context, handle string) error
}
