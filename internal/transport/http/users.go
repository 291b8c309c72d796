package http

import (
	"encoding/json"
	"net/http"

	"activeresident/internal/dto"
	"activeresident/internal/service"
)

type userHandler struct {
	svc service.UserService
}

func (h *userHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	usr, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, usr)
}

func (h *userHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	tokens, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *userHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	tokens, err := h.svc.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *userHandler) me(w http.ResponseWriter, r *http.Request) {
	usr, err := h.svc.Get(r.Context(), identity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usr)
}

func (h *userHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch dto.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	usr, err := h.svc.Update(r.Context(), identity(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usr)
}

func (h *userHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Deactivate(r.Context(), identity(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *userHandler) adminGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	usr, err := h.svc.AdminGet(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usr)
}

func (h *userHandler) adminDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.AdminDeactivate(r.Context(), identity(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *userHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), identity(r), req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *userHandler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var patch dto.UserAddressPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	addr, err := h.svc.UpdateAddress(r.Context(), identity(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

func (h *userHandler) settings(w http.ResponseWriter, r *http.Request) {
	set, err := h.svc.GetSettings(r.Context(), identity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *userHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch dto.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	set, err := h.svc.UpdateSettings(r.Context(), identity(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}
