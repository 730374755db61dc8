package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/filecove/filecove/internal/common"
)

// validate is shared; validator instances cache struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type avatarUploadRequest struct {
	MimeType string `json:"mimeType" validate:"required"`
}

type avatarConfirmRequest struct {
	StorageKey string `json:"storageKey" validate:"required"`
}

type uploadRequest struct {
	Filename string `json:"filename" validate:"required,min=1,max=255"`
	MimeType string `json:"mimeType" validate:"required"`
	FolderID *int64 `json:"folderId" validate:"omitempty,gt=0"`
}

type confirmUploadRequest struct {
	StorageKey string `json:"storageKey" validate:"required"`
	Filename   string `json:"filename" validate:"required,min=1,max=255"`
	MimeType   string `json:"mimeType" validate:"required"`
	SizeKB     int64  `json:"sizeKB" validate:"required,gt=0"`
	FolderID   *int64 `json:"folderId" validate:"omitempty,gt=0"`
}

type renameRequest struct {
	Filename string `json:"filename" validate:"required,min=1,max=255"`
}

type moveRequest struct {
	FolderID *int64 `json:"folderId" validate:"omitempty,gt=0"`
}

type folderCreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	ParentID *int64 `json:"parentId" validate:"omitempty,gt=0"`
}

type shareGenerateRequest struct {
	ExpiresIn int64  `json:"expiresIn" validate:"required,gt=0"`
	Unit      string `json:"unit" validate:"required,oneof=minutes hours days"`
}

// TTL converts the enumerated expiry into a duration.
func (r shareGenerateRequest) TTL() time.Duration {
	switch r.Unit {
	case "minutes":
		return time.Duration(r.ExpiresIn) * time.Minute
	case "days":
		return time.Duration(r.ExpiresIn) * 24 * time.Hour
	default:
		return time.Duration(r.ExpiresIn) * time.Hour
	}
}

// decodeJSON parses and validates the request body. Malformed JSON and
// constraint violations both surface as ErrValidation.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// idParam reads a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", common.ErrValidation, name)
	}
	return id, nil
}
