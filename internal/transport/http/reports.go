package http

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"activeresident/internal/dto"
	"activeresident/internal/service"
)

// Photos above this size get rejected at the edge.
const maxUploadBytes = 32 << 20

type reportHandler struct {
	svc service.ReportService
}

func (h *reportHandler) feed(w http.ResponseWriter, r *http.Request) {
	ident := identity(r)
	adminView := ident.IsAdmin && r.URL.Query().Get("all") == "true"
	reports, err := h.svc.Feed(r.Context(), adminView)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// create accepts multipart/form-data with a JSON "report" part and any number
// of "photos" file parts. A plain JSON body works too when there is nothing
// to upload.
func (h *reportHandler) create(w http.ResponseWriter, r *http.Request) {
	var (
		req    dto.ReportCreate
		photos []dto.PhotoUpload
	)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart body", http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("report")), &req); err != nil {
			http.Error(w, "invalid report part", http.StatusBadRequest)
			return
		}
		for _, fh := range r.MultipartForm.File["photos"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "unreadable photo part", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
			_ = f.Close()
			if err != nil || len(data) > maxUploadBytes {
				http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
				return
			}
			photos = append(photos, dto.PhotoUpload{
				Data:      data,
				Extension: filepath.Ext(fh.Filename),
			})
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	}

	rep, err := h.svc.Create(r.Context(), identity(r), req, photos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (h *reportHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.svc.Get(r.Context(), id, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *reportHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	var patch dto.ReportPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	rep, err := h.svc.Update(r.Context(), identity(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *reportHandler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	var patch dto.AdminReportPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	rep, err := h.svc.AdminUpdate(r.Context(), identity(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *reportHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reportID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), identity(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *reportHandler) photo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "photoID")
	if err != nil {
		writeError(w, err)
		return
	}
	photo, data, err := h.svc.Photo(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	ct := mime.TypeByExtension(filepath.Ext(photo.FilenamePath))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
