package handler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteforge/internal/archive"
	"siteforge/internal/registry"
)

func newProjectsHandler(t *testing.T) *ProjectsHandler {
	t.Helper()
	projects := t.TempDir()

	dir := filepath.Join(projects, "cafe-x-1")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "home.tsx"), []byte("export default function Home() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"cafe-x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte{0x89, 0x50}, 0o644))

	arch, err := archive.NewService(projects)
	require.NoError(t, err)

	reg := registry.New(filepath.Join(t.TempDir(), "registry.json"))
	reg.Put(registry.Project{ID: "cafe-x-1", Pages: []string{"home.tsx"}})

	return NewProjectsHandler(reg, arch, nil)
}

func getProject(t *testing.T, h *ProjectsHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.HandleProject(w, req)
	return w
}

func TestHandleListProjects(t *testing.T) {
	h := newProjectsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool               `json:"success"`
		Projects []registry.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "cafe-x-1", resp.Projects[0].ID)
}

func TestHandleProjectTree(t *testing.T) {
	h := newProjectsHandler(t)

	w := getProject(t, h, "/api/projects/cafe-x-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Tree    archive.Node `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	names := make([]string, 0, len(resp.Tree.Children))
	for _, c := range resp.Tree.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"logo.png", "package.json", "pages"}, names)
}

func TestHandleProjectFile(t *testing.T) {
	h := newProjectsHandler(t)

	w := getProject(t, h, "/api/projects/cafe-x-1?file=pages/home.tsx")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		File    string `json:"file"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pages/home.tsx", resp.File)
	assert.Contains(t, resp.Content, "export default")

	// binary files stream as an attachment
	bw := getProject(t, h, "/api/projects/cafe-x-1?file=logo.png")
	require.Equal(t, http.StatusOK, bw.Code)
	assert.Equal(t, "image/png", bw.Header().Get("Content-Type"))
	assert.Contains(t, bw.Header().Get("Content-Disposition"), "logo.png")
	assert.Equal(t, []byte{0x89, 0x50}, bw.Body.Bytes())

	// traversal is refused
	assert.Equal(t, http.StatusForbidden, getProject(t, h, "/api/projects/cafe-x-1?file=../cafe-x-1/package.json").Code)

	// missing file
	assert.Equal(t, http.StatusNotFound, getProject(t, h, "/api/projects/cafe-x-1?file=pages/nope.tsx").Code)
}

func TestHandleProjectMetadata(t *testing.T) {
	h := newProjectsHandler(t)

	w := getProject(t, h, "/api/projects/cafe-x-1?action=metadata")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool             `json:"success"`
		Metadata archive.Metadata `json:"metadata"`
		Project  *registry.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cafe-x-1", resp.Metadata.ProjectID)
	assert.Equal(t, 3, resp.Metadata.FileCount)
	require.NotNil(t, resp.Project)
	assert.Equal(t, []string{"home.tsx"}, resp.Project.Pages)

	// wire field names
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["metadata"], &fields))
	for _, name := range []string{"sizeBytes", "modified", "created", "fileCount", "dirCount"} {
		assert.Contains(t, fields, name)
	}
}

func TestHandleProjectDownload(t *testing.T) {
	h := newProjectsHandler(t)

	w := getProject(t, h, "/api/projects/cafe-x-1?action=download")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cafe-x-1.zip")

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"cafe-x-1/pages/home.tsx",
		"cafe-x-1/package.json",
		"cafe-x-1/logo.png",
	}, names)
}

func TestHandleProjectUnknown(t *testing.T) {
	h := newProjectsHandler(t)

	for _, target := range []string{
		"/api/projects/nope",
		"/api/projects/nope?action=metadata",
		"/api/projects/nope?action=download",
		"/api/projects/nope?file=package.json",
	} {
		w := getProject(t, h, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json", target)
	}

	// empty id after the prefix
	assert.Equal(t, http.StatusNotFound, getProject(t, h, "/api/projects/").Code)
}

func TestHandleProjectUnknownAction(t *testing.T) {
	h := newProjectsHandler(t)

	w := getProject(t, h, "/api/projects/cafe-x-1?action=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleProjectsMethodNotAllowed(t *testing.T) {
	h := newProjectsHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/projects/cafe-x-1", nil)
	w = httptest.NewRecorder()
	h.HandleProject(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleProjectDelete(t *testing.T) {
	h := newProjectsHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/cafe-x-1", nil)
	w := httptest.NewRecorder()
	h.HandleProject(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Deleted string `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "cafe-x-1", resp.Deleted)

	// tree, registry record and a repeat delete all report not found
	assert.Equal(t, http.StatusNotFound, getProject(t, h, "/api/projects/cafe-x-1").Code)
	_, ok := h.registry.Get("cafe-x-1")
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodDelete, "/api/projects/cafe-x-1", nil)
	w = httptest.NewRecorder()
	h.HandleProject(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
