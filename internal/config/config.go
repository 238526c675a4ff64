// internal/config/config.go
//
// This package handles configuration and the .boardfile directory structure.
// Every project that uses boardfile gets a .boardfile/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// BoardfileDir is the name of the directory we create in each project
	BoardfileDir = ".boardfile"

	defaultBoardsDir = "."
	defaultIndexFile = "index.db"

	defaultIndent   = 2
	defaultLogLevel = "info"
)

const defaultProjectConfigYAML = `# boardfile project configuration
version: 1

# Where *.board.md files live, relative to the project root.
boards:
  dir: .
  recurse: true

# Serialization knobs applied by "boardfile fmt" and every save.
format:
  indent: 2
  lineWidth: 0
  trailingNewline: true

# Renderer hints consulted before the built-in kind defaults.
# hints:
#   - renderer: dashboard
#     requiredKeys: [statsConfig, columns]

logging:
  level: info
  stderr: false
`

// BoardsConfig locates the board files this project tracks.
type BoardsConfig struct {
	Dir     string `yaml:"dir"`
	Recurse bool   `yaml:"recurse"`
}

// FormatConfig carries the serialization knobs used on every write.
type FormatConfig struct {
	Indent          int  `yaml:"indent"`
	LineWidth       int  `yaml:"lineWidth"`
	TrailingNewline bool `yaml:"trailingNewline"`
}

// HintConfig is one renderer hint entry inside .boardfile/config.yaml.
type HintConfig struct {
	Renderer     string   `yaml:"renderer"`
	RequiredKeys []string `yaml:"requiredKeys"`
}

// LoggingConfig controls the project log file and mirroring to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Stderr bool   `yaml:"stderr"`
}

// ProjectConfig models .boardfile/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Boards  BoardsConfig  `yaml:"boards"`
	Format  FormatConfig  `yaml:"format"`
	Hints   []HintConfig  `yaml:"hints,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
}

// Config holds the runtime configuration for boardfile.
type Config struct {
	// ProjectDir is the directory where the user ran `boardfile` from
	ProjectDir string

	// BoardfileProjectDir is ProjectDir/.boardfile
	BoardfileProjectDir string

	Project ProjectConfig
}

// InitBoardfileDir creates the .boardfile directory structure in the given
// project directory. Called by `boardfile init` and on first save.
//
// Structure created:
// .boardfile/
// ├── logs/       <- Command activity log
// ├── tasks/      <- Per-task *.task.md exports
// └── index.db    <- SQLite hash index (created lazily by the store)
func InitBoardfileDir(projectDir string) error {
	boardfileDir := filepath.Join(projectDir, BoardfileDir)

	dirs := []string{
		filepath.Join(boardfileDir, "logs"),
		filepath.Join(boardfileDir, "tasks"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := ensureProjectConfig(filepath.Join(boardfileDir, "config.yaml")); err != nil {
		return err
	}
	return ensureGitignore(filepath.Join(boardfileDir, ".gitignore"))
}

// NewConfig creates a new Config instance populated with project settings.
// A missing config file is not an error; defaults apply.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		BoardfileProjectDir: filepath.Join(projectDir, BoardfileDir),
		Project:             defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BoardsDir returns the absolute directory scanned for board files.
func (c *Config) BoardsDir() string {
	return resolvePath(c.ProjectDir, c.Project.Boards.Dir)
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.BoardfileProjectDir, "logs")
}

// TasksDir returns the directory holding per-task exports.
func (c *Config) TasksDir() string {
	return filepath.Join(c.BoardfileProjectDir, "tasks")
}

// IndexPath returns the on-disk location of the SQLite hash index.
func (c *Config) IndexPath() string {
	return filepath.Join(c.BoardfileProjectDir, defaultIndexFile)
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.BoardfileProjectDir, "config.yaml")
}

// SetFormat updates the serialization knobs and persists them back to
// .boardfile/config.yaml.
func (c *Config) SetFormat(format FormatConfig) error {
	c.Project.Format = format
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Boards:  BoardsConfig{Dir: defaultBoardsDir, Recurse: true},
		Format:  FormatConfig{Indent: defaultIndent, TrailingNewline: true},
		Logging: LoggingConfig{Level: defaultLogLevel},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Boards.Dir == "" {
		pc.Boards.Dir = defaultBoardsDir
	}
	if pc.Format.Indent == 0 {
		pc.Format.Indent = defaultIndent
	}
	if pc.Logging.Level == "" {
		pc.Logging.Level = defaultLogLevel
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Boards.Dir = strings.TrimSpace(pc.Boards.Dir)
	pc.Logging.Level = strings.ToLower(strings.TrimSpace(pc.Logging.Level))
	for i := range pc.Hints {
		pc.Hints[i].Renderer = strings.TrimSpace(pc.Hints[i].Renderer)
		for j := range pc.Hints[i].RequiredKeys {
			pc.Hints[i].RequiredKeys[j] = strings.TrimSpace(pc.Hints[i].RequiredKeys[j])
		}
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Format.Indent < 1 || pc.Format.Indent > 8 {
		return fmt.Errorf("format.indent must be between 1 and 8")
	}
	if pc.Format.LineWidth < 0 {
		return fmt.Errorf("format.lineWidth must be >= 0")
	}
	switch pc.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}
	for i, hint := range pc.Hints {
		if hint.Renderer == "" {
			return fmt.Errorf("hints[%d]: renderer is required", i)
		}
		if len(hint.RequiredKeys) == 0 {
			return fmt.Errorf("hints[%d]: requiredKeys is required", i)
		}
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return base
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func ensureGitignore(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	// Logs and the index are local artifacts; config and task exports track.
	return os.WriteFile(path, []byte("logs/\nindex.db\n"), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.BoardfileProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure boardfile dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
