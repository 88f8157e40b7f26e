package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"siteforge/internal/archive"
	"siteforge/internal/mirror"
	"siteforge/internal/registry"
)

// ProjectsHandler serves the project index and per-project inspection:
// file tree, single-file reads, metadata and zip downloads.
type ProjectsHandler struct {
	registry *registry.Store
	archive  *archive.Service
	mirror   *mirror.Mirror
}

func NewProjectsHandler(reg *registry.Store, arch *archive.Service, mir *mirror.Mirror) *ProjectsHandler {
	return &ProjectsHandler{registry: reg, archive: arch, mirror: mir}
}

// HandleList serves GET /api/projects, newest first.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"projects": h.registry.List(),
	})
}

// HandleProject serves /api/projects/{id}. The default GET response is the
// project file tree; ?file= reads one text file, ?action=metadata returns
// archive stats and ?action=download streams a zip snapshot. DELETE removes
// the project tree and its registry record.
func (h *ProjectsHandler) HandleProject(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/projects/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, http.StatusNotFound, "not found", "")
		return
	}
	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		h.deleteProject(w, id)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if file := q.Get("file"); file != "" {
		h.serveFile(w, id, file)
		return
	}
	switch q.Get("action") {
	case "":
		h.serveTree(w, id)
	case "metadata":
		h.serveMetadata(w, r, id)
	case "download":
		h.serveZip(w, id)
	default:
		writeFailure(w, http.StatusBadRequest, "unknown action", "")
	}
}

func (h *ProjectsHandler) deleteProject(w http.ResponseWriter, id string) {
	if err := h.archive.Remove(id); err != nil {
		writeArchiveError(w, err)
		return
	}
	h.registry.Delete(id)
	h.registry.Save()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": id,
	})
}

func (h *ProjectsHandler) serveTree(w http.ResponseWriter, id string) {
	tree, err := h.archive.Tree(id)
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tree":    tree,
	})
}

// serveFile inlines text files in the JSON envelope and streams everything
// else as a binary attachment, typed by extension.
func (h *ProjectsHandler) serveFile(w http.ResponseWriter, id, file string) {
	if archive.IsTextFile(file) {
		content, err := h.archive.ReadFile(id, file)
		if err != nil {
			writeArchiveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"file":    file,
			"content": string(content),
		})
		return
	}

	rc, err := h.archive.Open(id, file)
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	defer rc.Close()
	ctype := mime.TypeByExtension(path.Ext(file))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(file)))
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("file stream for %s/%s failed mid-transfer: %v", id, file, err)
	}
}

func (h *ProjectsHandler) serveMetadata(w http.ResponseWriter, r *http.Request, id string) {
	meta, err := h.archive.Metadata(id)
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	body := map[string]any{
		"success":  true,
		"metadata": meta,
	}
	if p, ok := h.registry.Get(id); ok {
		body["project"] = p
	}
	if h.mirror.Enabled() {
		if u, err := h.mirror.PresignedZipURL(r.Context(), id); err == nil {
			body["downloadUrl"] = u
		} else {
			log.Printf("presign zip for %s failed: %v", id, err)
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *ProjectsHandler) serveZip(w http.ResponseWriter, id string) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".zip"))
	if err := h.archive.WriteZip(w, id); err != nil {
		// The project is resolved before the first byte goes out, so these
		// still produce a clean error response.
		if errors.Is(err, archive.ErrNotFound) || errors.Is(err, archive.ErrForbidden) {
			w.Header().Del("Content-Disposition")
			writeArchiveError(w, err)
			return
		}
		log.Printf("zip stream for %s failed mid-transfer: %v", id, err)
	}
}
