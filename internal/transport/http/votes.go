package http

import (
	"encoding/json"
	"net/http"

	"activeresident/internal/dto"
	"activeresident/internal/service"
)

type voteHandler struct {
	svc service.VoteService
}

type voteBody struct {
	IsPositive bool `json:"isPositive"`
}

func (h *voteHandler) create(w http.ResponseWriter, r *http.Request) {
	reportID, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := userIDQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body voteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	vote, err := h.svc.Create(r.Context(), identity(r), dto.VoteCreate{
		UserID:     userID,
		ReportID:   reportID,
		IsPositive: body.IsPositive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

func (h *voteHandler) update(w http.ResponseWriter, r *http.Request) {
	reportID, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := userIDQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body voteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	vote, err := h.svc.Update(r.Context(), identity(r), dto.VoteUpdate{
		UserID:     userID,
		ReportID:   reportID,
		IsPositive: body.IsPositive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vote)
}

func (h *voteHandler) delete(w http.ResponseWriter, r *http.Request) {
	reportID, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := userIDQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), identity(r), userID, reportID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *voteHandler) get(w http.ResponseWriter, r *http.Request) {
	reportID, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := userIDQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vote, err := h.svc.Get(r.Context(), identity(r), userID, reportID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vote)
}
