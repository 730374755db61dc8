package httpapi

import (
	"time"

	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/services"
)

// View structs fix the JSON shape of API responses independently of the
// internal models. Storage keys and share tokens are never echoed except
// where the flow requires them.

type userView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u *models.User, avatarURL string) userView {
	return userView{ID: u.ID, Email: u.Email, AvatarURL: avatarURL, CreatedAt: u.CreatedAt}
}

type fileView struct {
	ID          int64      `json:"id"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mimeType"`
	SizeKB      int64      `json:"sizeKB"`
	FolderID    *int64     `json:"folderId"`
	Shared      bool       `json:"shared"`
	ShareExpiry *time.Time `json:"shareExpiry,omitempty"`
	UploadedAt  time.Time  `json:"uploadedAt"`
}

func newFileView(f *models.File) fileView {
	return fileView{
		ID:          f.ID,
		Filename:    f.Filename,
		MimeType:    f.MimeType,
		SizeKB:      f.SizeKB,
		FolderID:    f.FolderID,
		Shared:      f.Shared(),
		ShareExpiry: f.ShareExpiry,
		UploadedAt:  f.UploadedAt,
	}
}

func newFileViews(files []*models.File) []fileView {
	out := make([]fileView, 0, len(files))
	for _, f := range files {
		out = append(out, newFileView(f))
	}
	return out
}

type folderView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func newFolderView(f *models.Folder) folderView {
	return folderView{ID: f.ID, Name: f.Name, ParentID: f.ParentID, CreatedAt: f.CreatedAt}
}

func newFolderViews(folders []*models.Folder) []folderView {
	out := make([]folderView, 0, len(folders))
	for _, f := range folders {
		out = append(out, newFolderView(f))
	}
	return out
}

type ticketView struct {
	StorageKey string `json:"storageKey"`
	UploadURL  string `json:"uploadUrl"`
}

type pageView struct {
	Files []fileView `json:"files"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

func newPageView(p *services.FilePage) pageView {
	return pageView{Files: newFileViews(p.Files), Total: p.Total, Page: p.Page, Limit: p.Limit}
}

type folderContentView struct {
	Folder     folderView   `json:"folder"`
	Subfolders []folderView `json:"subfolders"`
	Files      []fileView   `json:"files"`
}

func newFolderContentView(c *services.FolderContent) folderContentView {
	return folderContentView{
		Folder:     newFolderView(c.Folder),
		Subfolders: newFolderViews(c.Subfolders),
		Files:      newFileViews(c.Files),
	}
}
