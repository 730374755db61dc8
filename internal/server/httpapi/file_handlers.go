package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/server/services"
)

func (h *Handler) handleUploadRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ticket, err := h.fs.RequestUpload(r.Context(), userID, req.FolderID, req.Filename, req.MimeType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", ticketView{StorageKey: ticket.StorageKey, UploadURL: ticket.UploadURL})
}

func (h *Handler) handleUploadConfirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	var req confirmUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := h.fs.ConfirmUpload(r.Context(), userID, req.StorageKey, req.Filename, req.MimeType, req.SizeKB, req.FolderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "file recorded", newFileView(file))
}

// handleFileList supports ?page, ?limit, ?mimeType and ?folderId, where
// folderId may be "root" to select unfiled items or a folder id for an exact
// match; absent means no folder filter.
func (h *Handler) handleFileList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	q := services.ListQuery{MimeType: r.URL.Query().Get("mimeType")}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if raw := r.URL.Query().Get("folderId"); raw != "" {
		q.FilterFolder = true
		if raw != "root" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				h.writeError(w, r, fmt.Errorf("%w: folderId must be \"root\" or a positive integer", common.ErrValidation))
				return
			}
			q.FolderID = &id
		}
	}

	page, err := h.fs.List(r.Context(), userID, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", newPageView(page))
}

func (h *Handler) handleFileGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	fileID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := h.fs.Get(r.Context(), userID, fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", newFileView(file))
}

func (h *Handler) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	fileID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	url, err := h.fs.DownloadURL(r.Context(), userID, fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]string{"downloadUrl": url})
}

func (h *Handler) handleFileRename(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	fileID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := h.fs.Rename(r.Context(), userID, fileID, req.Filename)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "file renamed", newFileView(file))
}

func (h *Handler) handleFileMove(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	fileID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := h.fs.Move(r.Context(), userID, fileID, req.FolderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "file moved", newFileView(file))
}

func (h *Handler) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	fileID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.fs.Delete(r.Context(), userID, fileID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "file deleted", nil)
}
