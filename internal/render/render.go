// Package render turns sitemap-derived names into generated source text.
// Everything here is pure string production: no filesystem, no state. The
// templates use [[ ]] delimiters because the emitted TSX is full of JSX
// braces that would collide with the default ones.
package render

import (
	"bytes"
	"text/template"

	"siteforge/internal/sitemap"
)

// PropSpec declares one prop a generated component accepts.
type PropSpec struct {
	Name string `json:"propName"`
	Type string `json:"propType"`
}

// ComponentSpec drives Component rendering.
type ComponentSpec struct {
	Name  string
	Props []PropSpec
}

// defaultProps is used when a spec declares no props, matching the shape the
// external generation agent emits for its fallback sections.
var defaultProps = []PropSpec{
	{Name: "title", Type: "string"},
	{Name: "description", Type: "string"},
}

type navLink struct {
	Label string
	Href  string
}

func navLinks(pageNames []string) []navLink {
	links := make([]navLink, 0, len(pageNames))
	for _, name := range pageNames {
		links = append(links, navLink{Label: name, Href: sitemap.PageRoute(name)})
	}
	return links
}

func newTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("[[", "]]").Parse(text))
}

func execute(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Static templates over plain structs; failing here is a bug.
		panic(err)
	}
	return buf.String()
}

var componentTmpl = newTemplate("component", `import React from 'react';

interface [[.Name]]Props {
[[- range .Props]]
  [[.Name]]?: [[.Type]];
[[- end]]
}

const [[.Name]]: React.FC<[[.Name]]Props> = () => {
  return (
    <section className="py-12">
      <div className="container mx-auto px-4">
        <h2 className="text-3xl font-bold mb-6" style={{ color: 'var(--primary)' }}>Generated [[.Name]] Component</h2>
        <p className="text-lg leading-relaxed" style={{ color: 'var(--text)' }}>This section is a placeholder produced from the sitemap.</p>
      </div>
    </section>
  );
};

export default [[.Name]];
`)

// Component renders a placeholder section component that accepts the declared
// props. With no props declared it falls back to optional title/description.
func Component(spec ComponentSpec) string {
	props := spec.Props
	if len(props) == 0 {
		props = defaultProps
	}
	return execute(componentTmpl, struct {
		Name  string
		Props []PropSpec
	}{Name: spec.Name, Props: props})
}

var pageTmpl = newTemplate("page", `'use client';

import React from 'react';
[[range .Components]]import [[.]] from '../components/[[.]]';
[[end]]
export default function [[.Func]]() {
  return (
    <div className="min-h-screen" style={{ backgroundColor: 'var(--background)' }}>
      <div className="container mx-auto px-4 py-8">
        <nav className="mb-8">
          <ul className="flex flex-wrap gap-4">
[[- range .Nav]]
            <li><a href="[[.Href]]" className="hover:underline" style={{ color: 'var(--primary)' }}>[[.Label]]</a></li>
[[- end]]
          </ul>
        </nav>
        <h1 className="text-4xl font-bold mb-8" style={{ color: 'var(--primary)', fontFamily: 'var(--font-headings)' }}>[[.Name]]</h1>
[[- range .Components]]
        <[[.]] />
[[- end]]
      </div>
    </div>
  );
}
`)

// Page renders one page file: it imports and mounts the given components in
// order and renders a navigation list over every page in the document.
func Page(name string, components []string, allPages []string) string {
	return execute(pageTmpl, struct {
		Name       string
		Func       string
		Components []string
		Nav        []navLink
	}{
		Name:       name,
		Func:       sitemap.PageComponentName(name),
		Components: components,
		Nav:        navLinks(allPages),
	})
}

var indexTmpl = newTemplate("index", `'use client';

import React from 'react';

export default function IndexPage() {
  return (
    <div className="min-h-screen" style={{ backgroundColor: 'var(--background)' }}>
      <div className="container mx-auto px-4 py-8">
        <h1 className="text-4xl font-bold mb-8" style={{ color: 'var(--primary)', fontFamily: 'var(--font-headings)' }}>[[.BusinessName]]</h1>
        <p className="text-lg mb-8" style={{ color: 'var(--text)' }}>Welcome to [[.BusinessName]].</p>
        <nav>
          <ul className="flex flex-wrap gap-4">
[[- range .Nav]]
            <li><a href="[[.Href]]" className="hover:underline" style={{ color: 'var(--primary)' }}>[[.Label]]</a></li>
[[- end]]
          </ul>
        </nav>
      </div>
    </div>
  );
}
`)

// IndexPage renders the fallback root page emitted when the sitemap has no
// page named home or index, so the project is always servable at "/".
func IndexPage(businessName string, allPages []string) string {
	return execute(indexTmpl, struct {
		BusinessName string
		Nav          []navLink
	}{BusinessName: businessName, Nav: navLinks(allPages)})
}

const layoutSource = `import React from 'react';
import Header from './Header';
import Footer from './Footer';

interface LayoutProps {
  children: React.ReactNode;
}

const Layout: React.FC<LayoutProps> = ({ children }) => {
  return (
    <div className="min-h-screen" style={{ backgroundColor: 'var(--background)' }}>
      <Header />
      <main className="container mx-auto px-4 py-8">{children}</main>
      <Footer />
    </div>
  );
};

export default Layout;
`

// Layout renders the shared page shell wiring Header and Footer together.
func Layout() string {
	return layoutSource
}

var headerTmpl = newTemplate("header", `import React from 'react';

const Header: React.FC = () => {
  return (
    <header className="py-4 shadow" style={{ backgroundColor: 'var(--primary)' }}>
      <div className="container mx-auto px-4 flex items-center justify-between">
        <span className="text-xl font-bold" style={{ color: 'var(--background)', fontFamily: 'var(--font-headings)' }}>[[.BusinessName]]</span>
        <nav>
          <ul className="flex gap-4">
[[- range .Nav]]
            <li><a href="[[.Href]]" style={{ color: 'var(--background)' }}>[[.Label]]</a></li>
[[- end]]
          </ul>
        </nav>
      </div>
    </header>
  );
};

export default Header;
`)

func Header(businessName string, allPages []string) string {
	return execute(headerTmpl, struct {
		BusinessName string
		Nav          []navLink
	}{BusinessName: businessName, Nav: navLinks(allPages)})
}

var footerTmpl = newTemplate("footer", `import React from 'react';

const Footer: React.FC = () => {
  return (
    <footer className="py-6 mt-12" style={{ backgroundColor: 'var(--secondary)' }}>
      <div className="container mx-auto px-4 text-center" style={{ color: 'var(--background)' }}>
        © [[.BusinessName]]
      </div>
    </footer>
  );
};

export default Footer;
`)

func Footer(businessName string) string {
	return execute(footerTmpl, struct{ BusinessName string }{BusinessName: businessName})
}
