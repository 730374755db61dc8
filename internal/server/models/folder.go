package models

import "time"

// Folder is a node in a per-owner folder forest. ParentID nil means the
// folder sits at the root. A folder's parent is always owned by the same
// user; creation validates the parent, which keeps whole chains
// owner-consistent link by link.
type Folder struct {
	ID        int64
	Name      string
	OwnerID   int64
	ParentID  *int64
	CreatedAt time.Time
}
