// Package planner produces and edits the two studio documents that feed
// website generation: the sitemap and the brand guide. Plans come from the
// model when one is configured and fall back to fixed defaults, so the
// endpoints always return a usable document.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"siteforge/internal/jsonutil"
	"siteforge/internal/llm"
	"siteforge/internal/sitemap"
)

const (
	sitemapFile    = "sitemap.json"
	brandGuideFile = "brand-guide.json"
)

// ErrNoDocument is returned by the edit operations when nothing has been
// planned or saved yet.
var ErrNoDocument = errors.New("planner: no document to edit")

// SitemapRequest is the input for sitemap planning.
type SitemapRequest struct {
	BusinessName        string `json:"business_name"`
	BusinessDescription string `json:"business_description"`
	LayoutPrompt        string `json:"layout_prompt,omitempty"`
}

// BrandGuideRequest is the input for brand guide planning. Logo presence
// only steers the prompt; the image itself is not analyzed.
type BrandGuideRequest struct {
	BusinessName        string            `json:"business_name"`
	BusinessDescription string            `json:"business_description"`
	Logo                string            `json:"logo,omitempty"`
	ColorPreferences    map[string]string `json:"color_preferences,omitempty"`
}

// Planner persists planned documents under dir. A nil client skips the model
// and plans from the defaults directly.
type Planner struct {
	dir    string
	client llm.Client
}

func New(dir string, client llm.Client) *Planner {
	return &Planner{dir: dir, client: client}
}

const sitemapPrompt = `You are a website architect tasked with creating a sitemap for %s.
Business description: %s

Create a sitemap for a website that would best represent this business.
The sitemap should include:
1. A list of pages (e.g., Home, About, Services, Contact)
2. For each page, a list of sections that should appear on that page
3. For each section, a brief description of what content should be in that section

Output the sitemap as a JSON object where:
- Keys are page names
- Values are arrays of section objects, each with a "type" and "description"`

// PlanSitemap asks the model for a sitemap and persists the result. Any
// model or parse failure falls back to the default sitemap.
func (p *Planner) PlanSitemap(ctx context.Context, req SitemapRequest) (*sitemap.Document, error) {
	prompt := fmt.Sprintf(sitemapPrompt, req.BusinessName, req.BusinessDescription)
	if req.LayoutPrompt != "" {
		prompt += "\n\nAdditional layout requirements: " + req.LayoutPrompt
	}

	doc := p.modelSitemap(ctx, prompt, req)
	if doc == nil {
		doc = DefaultSitemap(req.BusinessName)
	}

	if err := p.save(sitemapFile, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// modelSitemap returns nil on any model or parse failure so the caller can
// fall back to the default plan.
func (p *Planner) modelSitemap(ctx context.Context, prompt string, input any) *sitemap.Document {
	payload := p.modelJSON(ctx, prompt, input)
	if payload == nil {
		return nil
	}
	var doc sitemap.Document
	if err := json.Unmarshal(payload, &doc); err != nil || doc.Len() == 0 {
		log.Printf("planner: unusable sitemap from model, using default: %v", err)
		return nil
	}
	return &doc
}

const brandGuidePrompt = `You are a brand designer tasked with creating a style guide for %s.
Business description: %s

Create a comprehensive brand guide that would best represent this business.
The brand guide should include:
1. A color palette (primary, secondary, accent, background, text colors)
2. Typography choices (heading and body fonts)
3. UI style preferences (modern, classic, minimalist, etc.)
4. Component styling recommendations

Output the brand guide as a JSON object where the keys include:
- "colors": an object with color hex values for primary, secondary, accent, background, and text
- "typography": an object with font families for headings and body
- "ui_style": a string describing the overall UI style
- "components": an object with styling recommendations for buttons, cards, forms, etc.`

// PlanBrandGuide asks the model for a brand guide and persists the result.
// Color preferences override matching keys in the planned palette; keys the
// plan does not already have are ignored.
func (p *Planner) PlanBrandGuide(ctx context.Context, req BrandGuideRequest) (map[string]any, error) {
	prompt := fmt.Sprintf(brandGuidePrompt, req.BusinessName, req.BusinessDescription)
	if len(req.ColorPreferences) > 0 {
		prefs, _ := json.Marshal(req.ColorPreferences)
		prompt += "\n\nColor preferences: " + string(prefs)
	}
	if req.Logo != "" {
		prompt += "\n\nNote: A logo has been provided. Please ensure the color palette complements the logo."
	}

	guide := p.modelBrandGuide(ctx, prompt, req)
	if guide == nil {
		guide = DefaultBrandGuide()
	}

	if colors, ok := guide["colors"].(map[string]any); ok {
		for key, value := range req.ColorPreferences {
			if _, exists := colors[key]; exists {
				colors[key] = value
			}
		}
	}

	if err := p.save(brandGuideFile, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

// modelBrandGuide returns nil on any model or parse failure so the caller
// can fall back to the default guide.
func (p *Planner) modelBrandGuide(ctx context.Context, prompt string, input any) map[string]any {
	payload := p.modelJSON(ctx, prompt, input)
	if payload == nil {
		return nil
	}
	var guide map[string]any
	if err := json.Unmarshal(payload, &guide); err != nil || len(guide) == 0 {
		log.Printf("planner: unusable brand guide from model, using default: %v", err)
		return nil
	}
	return guide
}

// modelJSON runs one model round trip and cuts the JSON object out of the
// response. Nil means no model, a failed call, or no object in the reply.
func (p *Planner) modelJSON(ctx context.Context, prompt string, input any) []byte {
	if p.client == nil {
		return nil
	}
	raw, err := p.client.GenerateJSON(ctx, prompt, input)
	if err != nil {
		log.Printf("planner: model call failed, using default: %v", err)
		return nil
	}
	payload, ok := jsonutil.ExtractObject(string(raw))
	if !ok {
		log.Printf("planner: no JSON object in model response, using default")
		return nil
	}
	return []byte(payload)
}

// EditSitemap replaces the sections of each edited page wholesale, keeping
// page order, and appends pages that are new. Requires a planned sitemap.
func (p *Planner) EditSitemap(edits map[string][]sitemap.SectionSpec) (*sitemap.Document, error) {
	var doc sitemap.Document
	if err := p.load(sitemapFile, &doc); err != nil {
		return nil, err
	}
	for name, sections := range edits {
		doc.Set(name, sections)
	}
	if err := p.save(sitemapFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EditBrandGuide deep-merges the edits into the stored guide: nested objects
// merge key by key, everything else is replaced.
func (p *Planner) EditBrandGuide(edits map[string]any) (map[string]any, error) {
	var guide map[string]any
	if err := p.load(brandGuideFile, &guide); err != nil {
		return nil, err
	}
	deepMerge(guide, edits)
	if err := p.save(brandGuideFile, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

// LoadSitemap returns the stored sitemap, or ErrNoDocument.
func (p *Planner) LoadSitemap() (*sitemap.Document, error) {
	var doc sitemap.Document
	if err := p.load(sitemapFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadBrandGuide returns the stored brand guide, or ErrNoDocument.
func (p *Planner) LoadBrandGuide() (map[string]any, error) {
	var guide map[string]any
	if err := p.load(brandGuideFile, &guide); err != nil {
		return nil, err
	}
	return guide, nil
}

func (p *Planner) load(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(p.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNoDocument, name)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (p *Planner) save(name string, v any) error {
	// Descriptions regularly contain & and quotes; keep them readable in the
	// saved document.
	b, err := jsonutil.MarshalIndentNoEscape(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.dir, name), b, 0o644)
}

func deepMerge(dst, src map[string]any) {
	for key, value := range src {
		if srcMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = value
	}
}

// DefaultSitemap is the fallback plan when the model is unavailable.
func DefaultSitemap(businessName string) *sitemap.Document {
	doc := sitemap.New()
	doc.Set("Home", []sitemap.SectionSpec{
		{Type: "hero", Description: "Welcome to " + businessName},
		{Type: "features", Description: "Highlight key features or services"},
	})
	doc.Set("About", []sitemap.SectionSpec{
		{Type: "content", Description: "About the company"},
	})
	doc.Set("Contact", []sitemap.SectionSpec{
		{Type: "contact_form", Description: "Contact form and information"},
	})
	return doc
}

// DefaultBrandGuide is the fallback guide when the model is unavailable.
func DefaultBrandGuide() map[string]any {
	return map[string]any{
		"colors": map[string]any{
			"primary":    "#3B82F6",
			"secondary":  "#10B981",
			"accent":     "#F59E0B",
			"background": "#FFFFFF",
			"text":       "#1F2937",
		},
		"typography": map[string]any{
			"headings": "Playfair Display, serif",
			"body":     "Inter, sans-serif",
		},
		"ui_style": "Modern and clean",
		"components": map[string]any{
			"buttons": map[string]any{
				"primary": map[string]any{
					"background":    "#3B82F6",
					"text":          "#FFFFFF",
					"border_radius": "0.375rem",
				},
				"secondary": map[string]any{
					"background":    "transparent",
					"text":          "#3B82F6",
					"border":        "1px solid #3B82F6",
					"border_radius": "0.375rem",
				},
			},
			"cards": map[string]any{
				"background":    "#FFFFFF",
				"border_radius": "0.5rem",
				"shadow":        "0 4px 6px -1px rgba(0, 0, 0, 0.1)",
			},
			"forms": map[string]any{
				"input_border":        "1px solid #D1D5DB",
				"input_border_radius": "0.375rem",
				"input_padding":       "0.5rem 0.75rem",
			},
		},
	}
}
