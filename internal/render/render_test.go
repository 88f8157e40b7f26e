package render

import (
	"strings"
	"testing"

	"siteforge/internal/styleguide"
)

func TestComponentPlaceholder(t *testing.T) {
	src := Component(ComponentSpec{Name: "HeroSection"})
	for _, want := range []string{
		"interface HeroSectionProps {",
		"title?: string;",
		"description?: string;",
		"Generated HeroSection Component",
		"export default HeroSection;",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("component missing %q:\n%s", want, src)
		}
	}
}

func TestComponentDeclaredProps(t *testing.T) {
	src := Component(ComponentSpec{
		Name:  "MenuGrid",
		Props: []PropSpec{{Name: "items", Type: "string[]"}},
	})
	if !strings.Contains(src, "items?: string[];") {
		t.Fatalf("declared prop not rendered:\n%s", src)
	}
	if strings.Contains(src, "title?:") {
		t.Fatalf("default props leaked into declared-props component:\n%s", src)
	}
}

func TestPageImportsAndMountsInOrder(t *testing.T) {
	src := Page("Home", []string{"HeroSection", "Features"}, []string{"Home", "Contact"})

	heroImport := strings.Index(src, "import HeroSection from '../components/HeroSection';")
	featImport := strings.Index(src, "import Features from '../components/Features';")
	if heroImport < 0 || featImport < 0 || heroImport > featImport {
		t.Fatalf("imports missing or out of order:\n%s", src)
	}
	heroMount := strings.Index(src, "<HeroSection />")
	featMount := strings.Index(src, "<Features />")
	if heroMount < 0 || featMount < 0 || heroMount > featMount {
		t.Fatalf("mounts missing or out of order:\n%s", src)
	}
	if !strings.Contains(src, "export default function HomePage()") {
		t.Fatalf("page function name wrong:\n%s", src)
	}
	for _, want := range []string{`href="/home"`, `href="/contact"`} {
		if !strings.Contains(src, want) {
			t.Fatalf("navigation missing %q:\n%s", want, src)
		}
	}
}

func TestPageIsDeterministic(t *testing.T) {
	a := Page("Contact", []string{"ContactForm"}, []string{"Home", "Contact"})
	b := Page("Contact", []string{"ContactForm"}, []string{"Home", "Contact"})
	if a != b {
		t.Fatal("two identical renders differ")
	}
}

func TestChrome(t *testing.T) {
	if !strings.Contains(Layout(), "import Header from './Header';") {
		t.Fatal("layout does not wire Header")
	}
	header := Header("Cafe X", []string{"Home", "About Us"})
	if !strings.Contains(header, "Cafe X") || !strings.Contains(header, `href="/about-us"`) {
		t.Fatalf("header missing name or nav:\n%s", header)
	}
	if !strings.Contains(Footer("Cafe X"), "Cafe X") {
		t.Fatal("footer missing business name")
	}
}

func TestScaffoldTemplates(t *testing.T) {
	pkg := PackageJSON("cafe-x")
	if !strings.Contains(pkg, `"name": "cafe-x"`) {
		t.Fatalf("package.json name not templated:\n%s", pkg)
	}

	colors := styleguide.Colors{
		Primary: "#111111", Secondary: "#222222", Accent: "#333333",
		Text: "#C3B299", Background: "#F1EDEA",
	}
	tw := TailwindConfig(colors)
	for _, want := range []string{"primary: '#111111'", "background: '#F1EDEA'"} {
		if !strings.Contains(tw, want) {
			t.Fatalf("tailwind config missing %q:\n%s", want, tw)
		}
	}

	css := GlobalCSS(styleguide.Normalized{
		Colors:     colors,
		Typography: styleguide.Typography{Headings: "Oswald, sans-serif", Body: "Open Sans, sans-serif"},
	})
	for _, want := range []string{
		"@tailwind base;",
		"--primary: #111111;",
		"--font-headings: Oswald, sans-serif;",
	} {
		if !strings.Contains(css, want) {
			t.Fatalf("globals.css missing %q:\n%s", want, css)
		}
	}

	readme := Readme("Cafe X", []string{"Home", "Contact"})
	if !strings.Contains(readme, "# Cafe X") || !strings.Contains(readme, "- Contact") {
		t.Fatalf("readme not templated:\n%s", readme)
	}
}

func TestIndexPageLinksEveryPage(t *testing.T) {
	src := IndexPage("Cafe X", []string{"Menu", "Contact"})
	for _, want := range []string{"Welcome to Cafe X.", `href="/menu"`, `href="/contact"`} {
		if !strings.Contains(src, want) {
			t.Fatalf("index page missing %q:\n%s", want, src)
		}
	}
}
