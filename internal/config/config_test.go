package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	boardfileDir := filepath.Join(projectDir, ".boardfile")
	if err := os.MkdirAll(boardfileDir, 0755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BoardfileProjectDir: boardfileDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.Project.Format.Indent != defaultIndent {
		t.Fatalf("expected default indent %d, got %d", defaultIndent, c.Project.Format.Indent)
	}
	if c.BoardsDir() != projectDir {
		t.Fatalf("expected boards dir %q, got %q", projectDir, c.BoardsDir())
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	boardfileDir := filepath.Join(projectDir, ".boardfile")
	if err := os.MkdirAll(boardfileDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
boards:
  dir: work/boards
  recurse: true
format:
  indent: 4
  lineWidth: 100
  trailingNewline: true
hints:
  - renderer: dashboard
    requiredKeys: [statsConfig, columns]
logging:
  level: DEBUG
  stderr: true
`)
	if err := os.WriteFile(filepath.Join(boardfileDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BoardfileProjectDir: boardfileDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if !strings.HasPrefix(c.BoardsDir(), projectDir) || !strings.HasSuffix(c.BoardsDir(), filepath.Join("work", "boards")) {
		t.Fatalf("expected boards dir to be resolved, got %s", c.BoardsDir())
	}
	if c.Project.Format.Indent != 4 || c.Project.Format.LineWidth != 100 {
		t.Fatalf("format not parsed: %+v", c.Project.Format)
	}
	if len(c.Project.Hints) != 1 || c.Project.Hints[0].Renderer != "dashboard" {
		t.Fatalf("hints not parsed: %+v", c.Project.Hints)
	}
	if c.Project.Logging.Level != "debug" || !c.Project.Logging.Stderr {
		t.Fatalf("logging not normalized: %+v", c.Project.Logging)
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	boardfileDir := filepath.Join(projectDir, ".boardfile")
	if err := os.MkdirAll(boardfileDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
format:
  indent: 40
`)
	if err := os.WriteFile(filepath.Join(boardfileDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BoardfileProjectDir: boardfileDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestInitBoardfileDirIsIdempotent(t *testing.T) {
	projectDir := t.TempDir()
	for i := 0; i < 2; i++ {
		if err := InitBoardfileDir(projectDir); err != nil {
			t.Fatalf("init pass %d: %v", i, err)
		}
	}
	for _, rel := range []string{"logs", "tasks", "config.yaml", ".gitignore"} {
		if _, err := os.Stat(filepath.Join(projectDir, BoardfileDir, rel)); err != nil {
			t.Fatalf("missing %s: %v", rel, err)
		}
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("config from generated file: %v", err)
	}
	if c.Project.Format.Indent != defaultIndent {
		t.Fatalf("generated config must parse to defaults, got %+v", c.Project.Format)
	}
}
