package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filecove/filecove/internal/common"
)

func (h *Handler) handleShareGenerate(w http.ResponseWriter, r *http.Request) {
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

	var req shareGenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	file, shareURL, err := h.shares.Generate(r.Context(), userID, fileID, req.TTL())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "share link created", map[string]any{
		"shareUrl":  shareURL,
		"expiresAt": file.ShareExpiry,
	})
}

// handleShareAccess is the unauthenticated read path: token in, metadata and
// a short-lived download URL out.
func (h *Handler) handleShareAccess(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		h.writeError(w, r, common.ErrShareNotFound)
		return
	}

	shared, err := h.shares.Access(r.Context(), token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"file":        newFileView(shared.File),
		"downloadUrl": shared.DownloadURL,
	})
}

func (h *Handler) handleShareRevoke(w http.ResponseWriter, r *http.Request) {
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

	if err := h.shares.Revoke(r.Context(), userID, fileID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "share link revoked", map[string]any{
		"fileId":  fileID,
		"revoked": true,
	})
}
