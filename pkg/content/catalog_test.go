package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/josz009/folio/pkg/errors"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	if c.Profile.Name != "Jose Carlos Estrada" {
		t.Errorf("Profile.Name = %q", c.Profile.Name)
	}
	if c.Profile.GitHubUser != "Josz009" {
		t.Errorf("Profile.GitHubUser = %q", c.Profile.GitHubUser)
	}
	if len(c.Featured) != 4 {
		t.Fatalf("featured = %d, want 4", len(c.Featured))
	}
	if len(c.Additional) != 5 || len(c.Skills) != 3 || len(c.Career) != 3 {
		t.Errorf("additional=%d skills=%d career=%d", len(c.Additional), len(c.Skills), len(c.Career))
	}
	if len(c.Terminal.Projects) != 4 || len(c.Terminal.Skills) != 6 {
		t.Errorf("terminal projects=%d skills=%d", len(c.Terminal.Projects), len(c.Terminal.Skills))
	}

	again, _ := Default()
	if again != c {
		t.Error("Default parsed the catalog twice")
	}
}

func TestCurated(t *testing.T) {
	recs := MustDefault().Curated()
	if len(recs) != 4 {
		t.Fatalf("len = %d", len(recs))
	}

	tip := recs[0]
	if tip.Title != "Threat Intelligence Platform" {
		t.Errorf("Title = %q", tip.Title)
	}
	if tip.SourceURL == nil || *tip.SourceURL != "https://github.com/Josz009/threat-intelligence-platform" {
		t.Errorf("SourceURL = %v", tip.SourceURL)
	}
	if v, ok := tip.Metric("purpose"); !ok || v != "Demonstrate cybersecurity knowledge" {
		t.Errorf("purpose metric = %q, %v", v, ok)
	}

	pen := recs[1]
	if pen.LiveURL != nil || pen.SourceURL != nil {
		t.Errorf("pen test links should be nil: %v %v", pen.LiveURL, pen.SourceURL)
	}
	if recs[3].SourceURL != nil || recs[3].LiveURL == nil {
		t.Errorf("e-commerce links = %v %v", recs[3].LiveURL, recs[3].SourceURL)
	}

	recs[0].TechStack[0] = "changed"
	if MustDefault().Featured[0].TechStack[0] == "changed" {
		t.Error("Curated shares slices with the catalog")
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
profile:
  name: Test Person
  github_user: octocat
featured:
  - title: Demo
    description: A demo project
    github_url: https://github.com/octocat/demo
    metrics:
      - label: users
        value: "10"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Profile.Name != "Test Person" || len(c.Featured) != 1 {
		t.Errorf("catalog = %+v", c)
	}
	if c.Featured[0].Metrics[0].Value != "10" {
		t.Errorf("metric = %+v", c.Featured[0].Metrics[0])
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := `
[profile]
name = "Test Person"

[[featured]]
title = "Demo"
description = "A demo project"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Featured[0].Title != "Demo" {
		t.Errorf("title = %q", c.Featured[0].Title)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"json extension", write("c.json", "{}"), errors.ErrCodeInvalidFormat},
		{"missing file", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"bad toml", write("bad.toml", "[profile\nname="), errors.ErrCodeInvalidFormat},
		{"unknown toml key", write("extra.toml", "[profile]\nnickname = \"x\"\n"), errors.ErrCodeInvalidFormat},
		{"unknown yaml key", write("extra.yaml", "profile:\n  nickname: x\n"), errors.ErrCodeInvalidFormat},
		{"empty title", write("notitle.yaml", "featured:\n  - description: d\n"), errors.ErrCodeInvalidInput},
		{"empty description", write("nodesc.toml", "[[featured]]\ntitle = \"T\"\n"), errors.ErrCodeInvalidInput},
		{"duplicate title", write("dup.yaml", "featured:\n  - {title: A, description: d}\n  - {title: a, description: d}\n"), errors.ErrCodeInvalidInput},
		{"bad github user", write("user.yaml", "profile:\n  github_user: \"bad/user\"\n"), errors.ErrCodeInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(tt.path)
			if c != nil {
				t.Errorf("catalog returned alongside error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestProject(t *testing.T) {
	c := MustDefault()
	if _, ok := c.Project("talent pipeline portal"); !ok {
		t.Error("case-insensitive lookup failed")
	}
	if _, ok := c.Project("nope"); ok {
		t.Error("found nonexistent project")
	}
}
