package sitemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SectionSpec is one section on a page: a free-text type the component name
// is derived from, plus a description handed to generation.
type SectionSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Page pairs a page name with its ordered section list.
type Page struct {
	Name     string
	Sections []SectionSpec
}

// Document maps page names to ordered section lists. Page order is the order
// keys appeared in the JSON object and survives decode/encode round trips;
// the navigation rendered into every generated page follows it.
type Document struct {
	pages []Page
	index map[string]int
}

func New() *Document {
	return &Document{index: make(map[string]int)}
}

// Set adds a page at the end, or replaces the sections of an existing page
// in place, keeping its original position.
func (d *Document) Set(name string, sections []SectionSpec) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.pages[i].Sections = sections
		return
	}
	d.index[name] = len(d.pages)
	d.pages = append(d.pages, Page{Name: name, Sections: sections})
}

// Pages returns the pages in document order.
func (d *Document) Pages() []Page {
	if d == nil {
		return nil
	}
	return d.pages
}

// PageNames returns the page names in document order.
func (d *Document) PageNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.pages))
	for _, p := range d.pages {
		names = append(names, p.Name)
	}
	return names
}

func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.pages)
}

// UnmarshalJSON decodes the wire object token by token so the page order of
// the incoming document is kept. encoding/json's map decoding would lose it.
func (d *Document) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		d.pages = nil
		d.index = make(map[string]int)
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sitemap: expected object, got %v", tok)
	}

	d.pages = nil
	d.index = make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sitemap: expected page name, got %v", keyTok)
		}
		var sections []SectionSpec
		if err := dec.Decode(&sections); err != nil {
			return fmt.Errorf("sitemap: page %q: %w", name, err)
		}
		d.Set(name, sections)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the pages back as a JSON object in document order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range d.Pages() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		sections := p.Sections
		if sections == nil {
			sections = []SectionSpec{}
		}
		val, err := json.Marshal(sections)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ComponentName strips all whitespace from the section type, so
// "Hero Section" becomes "HeroSection". A type that is empty or whitespace
// only falls back to "Section".
func ComponentName(section SectionSpec) string {
	name := strings.Join(strings.Fields(section.Type), "")
	if name == "" {
		return "Section"
	}
	return name
}

// PageFileName lowercases the page name and replaces spaces with hyphens:
// "About Us" becomes "about-us.tsx".
func PageFileName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-")) + ".tsx"
}

// PageComponentName removes spaces and appends "Page": "About Us" becomes
// "AboutUsPage".
func PageComponentName(name string) string {
	return strings.Join(strings.Fields(name), "") + "Page"
}

// PageRoute is the URL path a generated page is served at.
func PageRoute(name string) string {
	return "/" + strings.TrimSuffix(PageFileName(name), ".tsx")
}
