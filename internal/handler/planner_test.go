package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteforge/internal/planner"
	"siteforge/internal/sitemap"
)

// newPlannerHandler plans without a model, so the documents come from the
// built-in defaults.
func newPlannerHandler(t *testing.T) *PlannerHandler {
	t.Helper()
	return NewPlannerHandler(planner.New(t.TempDir(), nil))
}

func TestHandleGenerateSitemapDefaults(t *testing.T) {
	h := newPlannerHandler(t)

	body := `{"business_name":"Cafe X","business_description":"Cozy corner cafe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate-sitemap", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleGenerateSitemap(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool              `json:"success"`
		Sitemap *sitemap.Document `json:"sitemap"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Sitemap)
	assert.Equal(t, []string{"Home", "About", "Contact"}, resp.Sitemap.PageNames())
}

func TestHandleGenerateSitemapRequiresName(t *testing.T) {
	h := newPlannerHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-sitemap", strings.NewReader(`{"business_description":"x"}`))
	w := httptest.NewRecorder()
	h.HandleGenerateSitemap(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "business_name is required")
}

func TestHandleSitemapEdit(t *testing.T) {
	h := newPlannerHandler(t)

	putBody := `{"About":[{"type":"content","description":"Our story"}]}`

	// nothing planned yet
	req := httptest.NewRequest(http.MethodPut, "/api/sitemap", strings.NewReader(putBody))
	w := httptest.NewRecorder()
	h.HandleSitemap(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// plan, then edit
	req = httptest.NewRequest(http.MethodPost, "/api/generate-sitemap", strings.NewReader(`{"business_name":"Cafe X"}`))
	w = httptest.NewRecorder()
	h.HandleGenerateSitemap(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/sitemap", strings.NewReader(putBody))
	w = httptest.NewRecorder()
	h.HandleSitemap(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Sitemap *sitemap.Document `json:"sitemap"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Sitemap)
	assert.Equal(t, []string{"Home", "About", "Contact"}, resp.Sitemap.PageNames(), "edited page keeps its slot")

	pages := resp.Sitemap.Pages()
	require.Len(t, pages[1].Sections, 1)
	assert.Equal(t, "Our story", pages[1].Sections[0].Description)

	// the edit is persisted
	req = httptest.NewRequest(http.MethodGet, "/api/sitemap", nil)
	w = httptest.NewRecorder()
	h.HandleSitemap(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Our story")
}

func TestHandleBrandGuideRoundTrip(t *testing.T) {
	h := newPlannerHandler(t)

	// nothing planned yet
	req := httptest.NewRequest(http.MethodGet, "/api/brand-guide", nil)
	w := httptest.NewRecorder()
	h.HandleBrandGuide(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// plan with a color preference
	body := `{"business_name":"Cafe X","color_preferences":{"primary":"#123456"}}`
	req = httptest.NewRequest(http.MethodPost, "/api/generate-brand-guide", strings.NewReader(body))
	w = httptest.NewRecorder()
	h.HandleGenerateBrandGuide(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "#123456")

	// deep-merge an edit
	req = httptest.NewRequest(http.MethodPut, "/api/brand-guide", strings.NewReader(`{"typography":{"headings":"Lora, serif"}}`))
	w = httptest.NewRecorder()
	h.HandleBrandGuide(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// read back: the edit landed, its siblings survived
	req = httptest.NewRequest(http.MethodGet, "/api/brand-guide", nil)
	w = httptest.NewRecorder()
	h.HandleBrandGuide(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		BrandGuide map[string]any `json:"brandGuide"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	typ, ok := resp.BrandGuide["typography"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lora, serif", typ["headings"])
	assert.Equal(t, "Inter, sans-serif", typ["body"])
}

func TestHandlePlannerMethodChecks(t *testing.T) {
	h := newPlannerHandler(t)

	for _, tc := range []struct {
		method string
		target string
		call   func(http.ResponseWriter, *http.Request)
	}{
		{http.MethodGet, "/api/generate-sitemap", h.HandleGenerateSitemap},
		{http.MethodGet, "/api/generate-brand-guide", h.HandleGenerateBrandGuide},
		{http.MethodPost, "/api/sitemap", h.HandleSitemap},
		{http.MethodDelete, "/api/brand-guide", h.HandleBrandGuide},
	} {
		req := httptest.NewRequest(tc.method, tc.target, strings.NewReader("{}"))
		w := httptest.NewRecorder()
		tc.call(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", tc.method, tc.target)
	}
}
