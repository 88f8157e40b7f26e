package jsonutil

import (
	"strings"
	"testing"
)

func TestMarshalNoEscapeKeepsHTMLCharacters(t *testing.T) {
	out, err := MarshalNoEscape(map[string]string{"name": "Bar & Grill <est. 1999>"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), `&amp;`) || strings.Contains(string(out), `&lt;`) {
		t.Fatalf("output is HTML-escaped: %s", out)
	}
	if !strings.Contains(string(out), "Bar & Grill <est. 1999>") {
		t.Fatalf("text mangled: %s", out)
	}
	if strings.HasSuffix(string(out), "\n") {
		t.Fatalf("trailing newline survived: %q", out)
	}
}

func TestMarshalIndentNoEscape(t *testing.T) {
	out, err := MarshalIndentNoEscape(map[string]any{"a": map[string]string{"b": "&"}}, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": {\n    \"b\": \"&\"\n  }\n}"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"prose around", "Here you go:\n{\"a\":1}\nHope that helps!", `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"no object", "sorry, I cannot do that", "", false},
		{"brace order", "} not a real object {", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractObject(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ExtractObject(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}
