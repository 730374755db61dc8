package httpapi

import (
	"net/http"

	"github.com/filecove/filecove/internal/common"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "account created", map[string]any{
		"user":  newUserView(user, ""),
		"token": token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "logged in", map[string]any{
		"user":  newUserView(user, ""),
		"token": token,
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	user, avatarURL, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", newUserView(user, avatarURL))
}

func (h *Handler) handleAvatarUploadRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	var req avatarUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ticket, err := h.users.RequestAvatarUpload(r.Context(), userID, req.MimeType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", ticketView{StorageKey: ticket.StorageKey, UploadURL: ticket.UploadURL})
}

func (h *Handler) handleAvatarConfirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrAuthRequired)
		return
	}

	var req avatarConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.ConfirmAvatarUpload(r.Context(), userID, req.StorageKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "avatar updated", newUserView(user, ""))
}
