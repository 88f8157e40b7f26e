// sitegen materializes one project tree from document files, without the
// server. Useful for inspecting generator output during template work.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"siteforge/internal/builder"
	"siteforge/internal/sitemap"
	"siteforge/internal/styleguide"
)

func main() {
	inputPath := flag.String("input", "", "path to the business input JSON")
	sitemapPath := flag.String("sitemap", "", "path to the sitemap JSON")
	brandPath := flag.String("brand", "", "path to the brand guide JSON")
	outDir := flag.String("out", "projects", "directory project trees are written under")
	projectID := flag.String("project-id", "", "project id (default: derived from the business name)")
	full := flag.Bool("full", false, "write the full scaffold (package.json, configs, styles)")
	flag.Parse()

	if *inputPath == "" || *sitemapPath == "" {
		log.Fatal("--input and --sitemap are required")
	}

	var data builder.InputData
	readJSON(*inputPath, &data)
	if data.Name == "" {
		log.Fatal("input has no business name")
	}

	var doc sitemap.Document
	readJSON(*sitemapPath, &doc)
	if doc.Len() == 0 {
		log.Fatal("sitemap has no pages")
	}

	var sg styleguide.Input
	if *brandPath != "" {
		readJSON(*brandPath, &sg)
	}
	guide := styleguide.Normalize(sg)

	id := *projectID
	if id == "" {
		id = builder.ProjectID(data.Name, time.Now())
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	b := builder.New(*outDir, nil)
	items, err := b.Build(&doc, guide, data, builder.Options{
		ProjectID:         id,
		CreateFullProject: *full,
	})
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"projectId":   id,
		"projectPath": b.ProjectDir(id),
		"items":       items,
	}); err != nil {
		log.Fatal(err)
	}
}

func readJSON(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Fatalf("%s: %v", path, err)
	}
}
