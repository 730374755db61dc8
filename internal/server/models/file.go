package models

import "time"

// File describes metadata for an object living in external object storage.
// The bytes themselves never pass through this service.
type File struct {
	ID       int64
	Filename string
	MimeType string
	SizeKB   int64

	// StorageKey is the object-storage key. It embeds the owner id
	// (users/{ownerID}/uploads/...) and is immutable once the object is
	// uploaded.
	StorageKey string

	OwnerID  int64
	FolderID *int64

	// ShareToken and ShareExpiry are either both set ("shared until T")
	// or both nil ("not shared"). The pair is only ever written together.
	ShareToken  *string
	ShareExpiry *time.Time

	UploadedAt time.Time
}

// Shared reports whether the file currently carries a share grant,
// expired or not.
func (f *File) Shared() bool {
	return f.ShareToken != nil && f.ShareExpiry != nil
}

// UploadTicket is handed to a client that asked to upload a file: the
// storage key the metadata will later be confirmed under, and a presigned
// URL valid for a single PUT.
type UploadTicket struct {
	StorageKey string
	UploadURL  string
}
