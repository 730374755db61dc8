// Package httpapi exposes the service layer over HTTP: a chi router, bearer
// token auth, typed request decoding, and a uniform JSON envelope.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/filecove/filecove/internal/logging"
	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/services"
)

// UserService is the account surface the handlers depend on.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID int64) (*models.User, string, error)
	RequestAvatarUpload(ctx context.Context, userID int64, mimeType string) (*models.UploadTicket, error)
	ConfirmAvatarUpload(ctx context.Context, userID int64, storageKey string) (*models.User, error)
}

// FileService is the file lifecycle surface the handlers depend on.
type FileService interface {
	RequestUpload(ctx context.Context, userID int64, folderID *int64, filename, mimeType string) (*models.UploadTicket, error)
	ConfirmUpload(ctx context.Context, userID int64, storageKey, filename, mimeType string, sizeKB int64, folderID *int64) (*models.File, error)
	List(ctx context.Context, userID int64, q services.ListQuery) (*services.FilePage, error)
	Get(ctx context.Context, userID, fileID int64) (*models.File, error)
	DownloadURL(ctx context.Context, userID, fileID int64) (string, error)
	Rename(ctx context.Context, userID, fileID int64, newName string) (*models.File, error)
	Move(ctx context.Context, userID, fileID int64, targetFolderID *int64) (*models.File, error)
	Delete(ctx context.Context, userID, fileID int64) error
}

// FolderService is the folder surface the handlers depend on.
type FolderService interface {
	Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error)
	List(ctx context.Context, userID int64) ([]*models.Folder, error)
	Get(ctx context.Context, userID, folderID int64) (*services.FolderContent, error)
	Delete(ctx context.Context, userID, folderID int64) error
}

// ShareService is the share-link surface the handlers depend on.
type ShareService interface {
	Generate(ctx context.Context, userID, fileID int64, ttl time.Duration) (*models.File, string, error)
	Access(ctx context.Context, token string) (*services.SharedFile, error)
	Revoke(ctx context.Context, userID, fileID int64) error
}

// Handler wires the services into HTTP routes.
type Handler struct {
	users     UserService
	fs        FileService
	folders   FolderService
	shares    ShareService
	jwtSecret []byte
	logger    logging.Logger
}

// NewHandler creates a Handler over the given services.
func NewHandler(users UserService, fs FileService, folders FolderService, shares ShareService, jwtSecret []byte, logger logging.Logger) *Handler {
	return &Handler{
		users:     users,
		fs:        fs,
		folders:   folders,
		shares:    shares,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Router builds the route tree. Everything under /api/v1 except
// register/login and the share-token read path requires a bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		// the one deliberately unauthenticated data path
		r.Get("/share/{token}", h.handleShareAccess)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)

			r.Get("/auth/profile", h.handleProfile)
			r.Post("/auth/avatar/upload-request", h.handleAvatarUploadRequest)
			r.Post("/auth/avatar/confirm", h.handleAvatarConfirm)

			r.Post("/files/upload-request", h.handleUploadRequest)
			r.Post("/files/confirm", h.handleUploadConfirm)
			r.Get("/files", h.handleFileList)
			r.Get("/files/{id}", h.handleFileGet)
			r.Get("/files/{id}/download", h.handleFileDownload)
			r.Patch("/files/{id}/rename", h.handleFileRename)
			r.Patch("/files/{id}/move", h.handleFileMove)
			r.Delete("/files/{id}", h.handleFileDelete)

			r.Post("/files/{id}/share", h.handleShareGenerate)
			r.Delete("/files/{id}/share", h.handleShareRevoke)

			r.Post("/folders", h.handleFolderCreate)
			r.Get("/folders", h.handleFolderList)
			r.Get("/folders/{id}", h.handleFolderGet)
			r.Delete("/folders/{id}", h.handleFolderDelete)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", nil)
}
