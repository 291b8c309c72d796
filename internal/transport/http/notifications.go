package http

import (
	"net/http"

	"activeresident/internal/domain"
	"activeresident/internal/service"
)

type notificationHandler struct {
	svc service.NotificationService
}

func (h *notificationHandler) list(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.List(r.Context(), identity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *notificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "notificationID")
	if err != nil {
		writeError(w, err)
		return
	}
	note, err := h.svc.MarkRead(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *notificationHandler) delete(w http.ResponseWriter, r *http.Request) {
	if !identity(r).IsAdmin {
		writeError(w, domain.ErrPermissionDenied)
		return
	}
	id, err := idParam(r, "notificationID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
