package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"siteforge/internal/agent"
	"siteforge/internal/archive"
	"siteforge/internal/builder"
	"siteforge/internal/mirror"
	"siteforge/internal/registry"
	"siteforge/internal/sitemap"
	"siteforge/internal/status"
	"siteforge/internal/styleguide"
)

// mirrorTimeout bounds the background object-storage upload after a build.
const mirrorTimeout = 2 * time.Minute

// GenerateHandler drives the full materialization flow: validate the request
// documents, build the project tree (template path or code agent), deploy it
// for preview, record it in the registry and mirror it to object storage.
type GenerateHandler struct {
	builder   *builder.Builder
	runner    *agent.Runner
	tracker   *status.Tracker
	registry  *registry.Store
	archive   *archive.Service
	mirror    *mirror.Mirror
	deployDir string
}

func NewGenerateHandler(
	b *builder.Builder,
	runner *agent.Runner,
	tracker *status.Tracker,
	reg *registry.Store,
	arch *archive.Service,
	mir *mirror.Mirror,
	deployDir string,
) *GenerateHandler {
	return &GenerateHandler{
		builder:   b,
		runner:    runner,
		tracker:   tracker,
		registry:  reg,
		archive:   arch,
		mirror:    mir,
		deployDir: deployDir,
	}
}

// HandleGenerate serves POST /api/generate-website.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		InputData     json.RawMessage `json:"input_data"`
		Sitemap       json.RawMessage `json:"sitemap"`
		StyleGuide    json.RawMessage `json:"style_guide"`
		UseMock       bool            `json:"use_mock"`
		CreateProject bool            `json:"create_project"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	var data builder.InputData
	if len(req.InputData) > 0 {
		if err := json.Unmarshal(req.InputData, &data); err != nil {
			writeFailure(w, http.StatusBadRequest, "input_data must be a JSON object", "")
			return
		}
	}
	if strings.TrimSpace(data.Name) == "" {
		writeFailure(w, http.StatusBadRequest, "input_data.name is required", "")
		return
	}

	if len(req.Sitemap) == 0 {
		writeFailure(w, http.StatusBadRequest, "sitemap is required", "")
		return
	}
	// An empty sitemap object is fine: the build still emits the shared
	// chrome and the fallback index page.
	var doc sitemap.Document
	if err := json.Unmarshal(req.Sitemap, &doc); err != nil {
		writeFailure(w, http.StatusBadRequest, "sitemap must map page names to section lists", "")
		return
	}

	if len(req.StyleGuide) == 0 {
		writeFailure(w, http.StatusBadRequest, "style_guide is required", "")
		return
	}
	var sg styleguide.Input
	if err := json.Unmarshal(req.StyleGuide, &sg); err != nil {
		writeFailure(w, http.StatusBadRequest, "style_guide must be a JSON object", "")
		return
	}
	guide := styleguide.Normalize(sg)

	projectID := builder.ProjectID(data.Name, time.Now())
	h.tracker.Start("Starting website generation for " + data.Name)

	items, err := h.generate(r.Context(), projectID, &doc, guide, data, agent.Request{
		InputData:  req.InputData,
		Sitemap:    req.Sitemap,
		StyleGuide: req.StyleGuide,
	}, req.UseMock, req.CreateProject)
	if err != nil {
		h.tracker.Complete(false, "Website generation failed: "+err.Error())
		writeGenerateError(w, err)
		return
	}

	projectDir := h.builder.ProjectDir(projectID)
	deployPath := ""
	if req.CreateProject {
		deployPath = filepath.Join(h.deployDir, projectID)
		h.tracker.Update(status.PhaseGenerating, "Deploying preview", nil)
		if err := builder.Deploy(projectDir, deployPath); err != nil {
			h.tracker.Complete(false, "Preview deploy failed")
			writeFailure(w, http.StatusInternalServerError, "Website generation failed", err.Error())
			return
		}
	}

	project := registry.Project{
		ID:          projectID,
		Pages:       items.Pages,
		Components:  items.Components,
		Configs:     items.Configs,
		Assets:      items.Assets,
		Timestamp:   time.Now(),
		ProjectPath: projectDir,
		DeployPath:  deployPath,
	}
	h.registry.Put(project)
	h.registry.Save()

	if h.mirror.Enabled() {
		go h.mirrorProject(projectID, projectDir)
	}

	h.tracker.Complete(true, "Website generated successfully")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        "Website generated successfully",
		"previewUrl":     "/preview/" + projectID + "/",
		"generatedItems": items,
		"websiteProject": project,
	})
}

// generate picks the build path. The mock path renders from templates; the
// agent path hands the raw documents to the external agent and, for full
// projects, adds the scaffold the agent does not produce.
func (h *GenerateHandler) generate(
	ctx context.Context,
	projectID string,
	doc *sitemap.Document,
	guide styleguide.Normalized,
	data builder.InputData,
	raw agent.Request,
	useMock, createProject bool,
) (builder.Items, error) {
	if useMock || h.runner == nil {
		return h.builder.Build(doc, guide, data, builder.Options{
			ProjectID:         projectID,
			CreateFullProject: createProject,
		})
	}

	items, err := h.runner.Generate(ctx, raw, h.builder.ProjectDir(projectID))
	if err != nil {
		return items, err
	}
	if createProject {
		configs, err := h.builder.ScaffoldConfigs(projectID, doc.PageNames(), guide, data)
		items = items.Merge(configs)
		if err != nil {
			return items, err
		}
	}
	return items, nil
}

// mirrorProject uploads the finished tree plus a zip snapshot in the
// background. Mirroring is best effort; failures are logged, never surfaced.
func (h *GenerateHandler) mirrorProject(projectID, projectDir string) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	if n, err := h.mirror.UploadTree(ctx, projectID, projectDir); err != nil {
		log.Printf("mirror tree for %s failed: %v", projectID, err)
	} else {
		log.Printf("mirrored %d objects for %s", n, projectID)
	}

	err := h.mirror.UploadZip(ctx, projectID, func(w io.Writer) error {
		return h.archive.WriteZip(w, projectID)
	})
	if err != nil {
		log.Printf("mirror zip for %s failed: %v", projectID, err)
	}
}

// writeGenerateError maps build-path failures onto the wire. Build errors
// keep the partially generated items in the body so the client can show what
// was written before the failure.
func writeGenerateError(w http.ResponseWriter, err error) {
	var be *builder.BuildError
	if errors.As(err, &be) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":        false,
			"message":        "Website generation failed",
			"error":          be.Error(),
			"generatedItems": be.Items,
		})
		return
	}
	var ae *agent.Error
	if errors.As(err, &ae) {
		writeFailure(w, http.StatusInternalServerError, "Website generation failed", ae.Error())
		return
	}
	writeFailure(w, http.StatusInternalServerError, "Website generation failed", err.Error())
}
