package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"siteforge/internal/planner"
	"siteforge/internal/sitemap"
)

// PlannerHandler serves the planning endpoints: generating the studio
// sitemap and brand guide, and reading or editing the saved documents.
type PlannerHandler struct {
	planner *planner.Planner
}

func NewPlannerHandler(p *planner.Planner) *PlannerHandler {
	return &PlannerHandler{planner: p}
}

// HandleGenerateSitemap serves POST /api/generate-sitemap.
func (h *PlannerHandler) HandleGenerateSitemap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req planner.SitemapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		writeFailure(w, http.StatusBadRequest, "business_name is required", "")
		return
	}
	doc, err := h.planner.PlanSitemap(r.Context(), req)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "sitemap generation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sitemap": doc,
	})
}

// HandleGenerateBrandGuide serves POST /api/generate-brand-guide.
func (h *PlannerHandler) HandleGenerateBrandGuide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req planner.BrandGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		writeFailure(w, http.StatusBadRequest, "business_name is required", "")
		return
	}
	guide, err := h.planner.PlanBrandGuide(r.Context(), req)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "brand guide generation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"brandGuide": guide,
	})
}

// HandleSitemap serves /api/sitemap: GET returns the saved document, PUT
// applies page-level edits to it.
func (h *PlannerHandler) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc, err := h.planner.LoadSitemap()
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "sitemap": doc})

	case http.MethodPut:
		var edits map[string][]sitemap.SectionSpec
		if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
			writeFailure(w, http.StatusBadRequest, "edits must map page names to section lists", "")
			return
		}
		if len(edits) == 0 {
			writeFailure(w, http.StatusBadRequest, "no edits given", "")
			return
		}
		doc, err := h.planner.EditSitemap(edits)
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "sitemap": doc})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBrandGuide serves /api/brand-guide: GET returns the saved document,
// PUT deep-merges edits into it.
func (h *PlannerHandler) HandleBrandGuide(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		guide, err := h.planner.LoadBrandGuide()
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "brandGuide": guide})

	case http.MethodPut:
		var edits map[string]any
		if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
			writeFailure(w, http.StatusBadRequest, "edits must be a JSON object", "")
			return
		}
		if len(edits) == 0 {
			writeFailure(w, http.StatusBadRequest, "no edits given", "")
			return
		}
		guide, err := h.planner.EditBrandGuide(edits)
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "brandGuide": guide})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writePlannerError(w http.ResponseWriter, err error) {
	if errors.Is(err, planner.ErrNoDocument) {
		writeFailure(w, http.StatusNotFound, "no saved document", "")
		return
	}
	writeFailure(w, http.StatusInternalServerError, "planner operation failed", err.Error())
}
