package httpapi

import (
	"net/http"

	"github.com/filecove/filecove/internal/common"
)

func (h *Handler) handleFolderCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	var req folderCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	folder, err := h.folders.Create(r.Context(), userID, req.Name, req.ParentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "folder created", newFolderView(folder))
}

func (h *Handler) handleFolderList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	folders, err := h.folders.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", newFolderViews(folders))
}

func (h *Handler) handleFolderGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	folderID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	content, err := h.folders.Get(r.Context(), userID, folderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", newFolderContentView(content))
}

func (h *Handler) handleFolderDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}
	folderID, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.folders.Delete(r.Context(), userID, folderID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "folder deleted", nil)
}
