// Package builder materializes a generated Next.js project directory from a
// sitemap and a normalized style guide. Writes are sequential; component
// files are written once per build, page files are always overwritten.
package builder

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"siteforge/internal/render"
	"siteforge/internal/sitemap"
	"siteforge/internal/status"
	"siteforge/internal/styleguide"
)

// InputData is the business payload forwarded by the wizard. Logo, when
// present, is a base64 data URL.
type InputData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
}

// Options control one build.
type Options struct {
	ProjectID         string
	CreateFullProject bool
}

// Builder writes project trees under a fixed root directory, reporting
// progress to an optional tracker.
type Builder struct {
	root    string
	tracker *status.Tracker
}

func New(root string, tracker *status.Tracker) *Builder {
	return &Builder{root: root, tracker: tracker}
}

// ProjectDir returns the directory a project with the given id is built in.
func (b *Builder) ProjectDir(projectID string) string {
	return filepath.Join(b.root, projectID)
}

// sharedComponents is the fixed chrome written once per project directory.
func sharedComponents(data InputData, pageNames []string) []struct{ name, source string } {
	return []struct{ name, source string }{
		{"Layout", render.Layout()},
		{"Header", render.Header(data.Name, pageNames)},
		{"Footer", render.Footer(data.Name)},
	}
}

// Build materializes one project directory. Any write failure aborts the
// rest of the build and returns a *BuildError carrying the files recorded so
// far; nothing is rolled back.
func (b *Builder) Build(doc *sitemap.Document, guide styleguide.Normalized, data InputData, opts Options) (Items, error) {
	items := NewItems()
	projectDir := b.ProjectDir(opts.ProjectID)
	pageNames := doc.PageNames()

	for _, dir := range []string{"pages", "components", filepath.Join("public", "images"), "styles"} {
		if err := os.MkdirAll(filepath.Join(projectDir, dir), 0o755); err != nil {
			return items, &BuildError{Step: "mkdir", Path: dir, Items: items, Err: err}
		}
	}
	b.tracker.Logf("Created project directories for %s", opts.ProjectID)

	if data.Logo != "" {
		rel, err := saveLogo(projectDir, data.Logo)
		if err != nil {
			b.tracker.Logf("Skipping logo asset: %v", err)
		} else {
			items.Assets = append(items.Assets, rel)
		}
	}

	// Shared chrome: written only if absent, recorded only on first creation.
	materialized := make(map[string]bool)
	for _, c := range sharedComponents(data, pageNames) {
		file := c.name + ".tsx"
		created, err := writeIfAbsent(filepath.Join(projectDir, "components", file), c.source)
		if err != nil {
			return items, &BuildError{Step: "component", Path: file, Items: items, Err: err}
		}
		if created {
			items.Components = append(items.Components, file)
		}
		materialized[c.name] = true
	}

	for _, page := range doc.Pages() {
		b.tracker.Update(status.PhaseGenerating,
			fmt.Sprintf("Generating page %s", page.Name),
			&status.Progress{Page: page.Name, Status: "generating"})

		var mounts []string
		seen := make(map[string]bool)
		for _, section := range page.Sections {
			name := sitemap.ComponentName(section)
			b.tracker.Update(status.PhaseGenerating,
				fmt.Sprintf("Generating component %s for %s", name, page.Name),
				&status.Progress{Page: page.Name, Section: name, Status: "generating"})

			if materialized[name] {
				b.tracker.Logf("Component %s already materialized, reusing", name)
			} else {
				file := name + ".tsx"
				created, err := writeIfAbsent(filepath.Join(projectDir, "components", file),
					render.Component(render.ComponentSpec{Name: name}))
				if err != nil {
					return items, &BuildError{Step: "component", Path: file, Items: items, Err: err}
				}
				if created {
					items.Components = append(items.Components, file)
				} else {
					b.tracker.Logf("Component %s exists on disk, keeping it", name)
				}
				materialized[name] = true
			}
			if !seen[name] {
				seen[name] = true
				mounts = append(mounts, name)
			}
		}

		// Pages always reflect the latest sitemap, so they are overwritten.
		pageFile := sitemap.PageFileName(page.Name)
		src := render.Page(page.Name, mounts, pageNames)
		if err := os.WriteFile(filepath.Join(projectDir, "pages", pageFile), []byte(src), 0o644); err != nil {
			return items, &BuildError{Step: "page", Path: pageFile, Items: items, Err: err}
		}
		items.Pages = append(items.Pages, pageFile)
	}

	if opts.CreateFullProject {
		written, path, err := b.scaffold(projectDir, pageNames, guide, data)
		items.Configs = append(items.Configs, written...)
		if err != nil {
			return items, &BuildError{Step: "config", Path: path, Items: items, Err: err}
		}
	}

	if !hasHomePage(pageNames) {
		src := render.IndexPage(data.Name, pageNames)
		if err := os.WriteFile(filepath.Join(projectDir, "pages", "index.tsx"), []byte(src), 0o644); err != nil {
			return items, &BuildError{Step: "page", Path: "index.tsx", Items: items, Err: err}
		}
		items.Pages = append(items.Pages, "index.tsx")
		b.tracker.Log("No home page in sitemap, emitted pages/index.tsx")
	}

	b.tracker.Logf("Materialized %d files for %s", items.Total(), opts.ProjectID)
	return items, nil
}

// ScaffoldConfigs writes the fixed project scaffold into an already-populated
// project directory. The external-agent path uses this after the agent has
// produced pages and components; the mock path gets the same files via Build.
func (b *Builder) ScaffoldConfigs(projectID string, pageNames []string, guide styleguide.Normalized, data InputData) (Items, error) {
	items := NewItems()
	projectDir := b.ProjectDir(projectID)
	if err := os.MkdirAll(filepath.Join(projectDir, "styles"), 0o755); err != nil {
		return items, &BuildError{Step: "mkdir", Path: "styles", Items: items, Err: err}
	}
	written, path, err := b.scaffold(projectDir, pageNames, guide, data)
	items.Configs = append(items.Configs, written...)
	if err != nil {
		return items, &BuildError{Step: "config", Path: path, Items: items, Err: err}
	}
	return items, nil
}

func (b *Builder) scaffold(projectDir string, pageNames []string, guide styleguide.Normalized, data InputData) (written []string, failed string, err error) {
	slug := Slug(data.Name)
	if slug == "" {
		slug = "website"
	}
	configs := []struct{ path, content string }{
		{"package.json", render.PackageJSON(slug + "-website")},
		{"tsconfig.json", render.TSConfig()},
		{"tailwind.config.js", render.TailwindConfig(guide.Colors)},
		{"postcss.config.js", render.PostCSSConfig()},
		{"README.md", render.Readme(data.Name, pageNames)},
		{".gitignore", render.Gitignore()},
		{filepath.Join("styles", "globals.css"), render.GlobalCSS(guide)},
	}
	for _, cf := range configs {
		if werr := os.WriteFile(filepath.Join(projectDir, cf.path), []byte(cf.content), 0o644); werr != nil {
			return written, cf.path, werr
		}
		written = append(written, filepath.Base(cf.path))
	}
	b.tracker.Log("Project scaffold written")
	return written, "", nil
}

func hasHomePage(names []string) bool {
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "home", "index":
			return true
		}
	}
	return false
}

// writeIfAbsent writes content only when no file exists at path. It reports
// whether this call created the file.
func writeIfAbsent(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func saveLogo(projectDir, encoded string) (string, error) {
	if i := strings.Index(encoded, ","); i >= 0 {
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("decode logo: %w", err)
	}
	rel := filepath.Join("images", "logo.png")
	if err := os.WriteFile(filepath.Join(projectDir, "public", rel), data, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
