package extract

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeSkill(t *testing.T) {
	tests := map[string]string{
		"ReactJS":            "react",
		"react.js":           "react",
		" JS ":               "javascript",
		"Node.js":            "nodejs",
		"NodeJS":             "nodejs",
		"ML":                 "machine learning",
		"Golang":             "go",
		"Postgres":           "postgresql",
		"k8s":                "kubernetes",
		"Machine   Learning": "machine learning",
		"Rust":               "rust",
	}
	for in, want := range tests {
		if got := NormalizeSkill(in); got != want {
			t.Errorf("NormalizeSkill(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeTermsExpandsMultiWordSkills(t *testing.T) {
	got := NormalizeTerms([]string{"ml", "js", "javascript", "reactjs"})
	want := []string{"javascript", "learning", "machine", "react"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("NormalizeTerms = %v, want %v", got, want)
	}
}

func TestSkillTerms(t *testing.T) {
	tests := map[string][]string{
		"Node.js":          {"nodejs"},
		"React Native":     {"native", "react"},
		"Machine Learning": {"learning", "machine"},
		"AI":               {"artificial", "intelligence"},
	}
	for skill, want := range tests {
		if got := SkillTerms(skill); strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("SkillTerms(%q) = %v, want %v", skill, got, want)
		}
	}
}

func TestKeywordsNormalizeSkillSpellings(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Skills: ReactJS, JS, NodeJS, react.js, Node JS, Java Script</w:t></w:r></w:p>`)
	got, err := Keywords(context.Background(), data, "docx")
	if err != nil {
		t.Fatalf("Keywords: %v", err)
	}
	want := "javascript,nodejs,react,skills"
	if strings.Join(got, ",") != want {
		t.Fatalf("Keywords = %v, want %s", got, want)
	}
}
