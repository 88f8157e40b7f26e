// Package agent runs the external code-generation agent as a subprocess and
// folds its output tree into a project directory.
//
// The agent contract: it is started inside a scratch directory containing
// input.json, sitemap.json and brand-guide.json, receives those three file
// names as arguments, and writes its result under ./output using the
// app-router layout (app/page.tsx, app/<page>/page.tsx, app/components/,
// public/). An agent may additionally drop a progress.json next to its
// output; when present it is mirrored into the status tracker.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"siteforge/internal/builder"
	"siteforge/internal/status"
)

// Request carries the raw request documents handed to the agent. They are
// written out verbatim, so the agent sees exactly what the client sent.
type Request struct {
	InputData  json.RawMessage
	Sitemap    json.RawMessage
	StyleGuide json.RawMessage
}

// Error is an agent failure with the captured stderr tail attached.
type Error struct {
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("agent: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("agent: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	Bin     string
	Script  string
	WorkDir string
	Timeout time.Duration
}

// Runner launches the agent and reports progress to an optional tracker.
type Runner struct {
	cfg     Config
	tracker *status.Tracker
}

func New(cfg Config, tracker *status.Tracker) *Runner {
	if strings.TrimSpace(cfg.Bin) == "" {
		cfg.Bin = "python3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Runner{cfg: cfg, tracker: tracker}
}

// runAgentCommand is injectable in tests.
var runAgentCommand = func(ctx context.Context, dir, bin string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Generate runs the agent against the request documents and copies its
// output tree into projectDir. The returned items classify every copied
// file. Files already copied stay in place on failure.
func (r *Runner) Generate(ctx context.Context, req Request, projectDir string) (builder.Items, error) {
	items := builder.NewItems()

	scratch := filepath.Join(r.cfg.WorkDir, uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return items, &Error{Err: fmt.Errorf("scratch dir: %w", err)}
	}
	defer os.RemoveAll(scratch)

	documents := []struct {
		name string
		data json.RawMessage
	}{
		{"input.json", req.InputData},
		{"sitemap.json", req.Sitemap},
		{"brand-guide.json", req.StyleGuide},
	}
	for _, doc := range documents {
		data := doc.data
		if len(data) == 0 {
			data = json.RawMessage("{}")
		}
		if err := os.WriteFile(filepath.Join(scratch, doc.name), data, 0o644); err != nil {
			return items, &Error{Err: fmt.Errorf("write %s: %w", doc.name, err)}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	stop := make(chan struct{})
	done := make(chan struct{})
	go r.pollProgress(filepath.Join(scratch, "progress.json"), stop, done)

	r.tracker.Logf("Launching generation agent %s", filepath.Base(r.cfg.Script))
	_, stderr, err := runAgentCommand(ctx, scratch, r.cfg.Bin, r.cfg.Script, "input.json", "sitemap.json", "brand-guide.json")
	close(stop)
	<-done

	if err != nil {
		tail := stderrTail(stderr)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return items, &Error{Stderr: tail, Err: fmt.Errorf("timed out after %s", r.cfg.Timeout)}
		}
		return items, &Error{Stderr: tail, Err: err}
	}

	outDir := filepath.Join(scratch, "output")
	if _, err := os.Stat(outDir); err != nil {
		return items, &Error{Stderr: stderrTail(stderr), Err: errors.New("agent produced no output directory")}
	}
	return r.collect(outDir, projectDir)
}

// collect copies the agent output into projectDir, classifying every file by
// where it sits in the app-router layout.
func (r *Runner) collect(outDir, projectDir string) (builder.Items, error) {
	items := builder.NewItems()
	err := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		dst := filepath.Join(projectDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}

		switch {
		case strings.HasPrefix(rel, "app/components/"):
			items.Components = append(items.Components, path.Base(rel))
		case strings.HasPrefix(rel, "public/"):
			items.Assets = append(items.Assets, strings.TrimPrefix(rel, "public/"))
		case strings.HasPrefix(rel, "app/") && path.Base(rel) == "page.tsx":
			items.Pages = append(items.Pages, pageEntry(rel))
		default:
			items.Configs = append(items.Configs, path.Base(rel))
		}
		return nil
	})
	if err != nil {
		return items, &Error{Err: fmt.Errorf("collect output: %w", err)}
	}
	if items.Total() == 0 {
		return items, &Error{Err: errors.New("agent output is empty")}
	}
	r.tracker.Logf("Agent produced %d files", items.Total())
	return items, nil
}

// pageEntry names a page after its app-route directory: app/page.tsx is the
// root index, app/about/page.tsx becomes about.tsx.
func pageEntry(rel string) string {
	dir := path.Dir(rel)
	if dir == "app" {
		return "index.tsx"
	}
	return path.Base(dir) + ".tsx"
}

// pollProgress mirrors the agent's optional progress.json into the tracker
// until stop is closed.
func (r *Runner) pollProgress(file string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	var last status.Progress
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b, err := os.ReadFile(file)
			if err != nil {
				continue
			}
			var p status.Progress
			if json.Unmarshal(b, &p) != nil || p == last {
				continue
			}
			last = p
			r.tracker.Update(status.PhaseGenerating, fmt.Sprintf("Agent generating %s", p.Page), &p)
		}
	}
}

func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	const max = 2000
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}
