// Package store moves board documents between the engine and the filesystem.
// It owns file discovery, atomic saves, per-task exports, and the SQLite hash
// index under .boardfile/.
package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"boardfile/internal/config"
	"boardfile/internal/engine"
)

const (
	// BoardSuffix marks files the discovery walk treats as boards.
	BoardSuffix = ".board.md"

	// TaskSuffix marks per-task export files under .boardfile/tasks/.
	TaskSuffix = ".task.md"
)

// Store is the filesystem gateway for one project directory.
type Store struct {
	cfg *config.Config
}

// New binds a store to a loaded project configuration.
func New(cfg *config.Config) *Store {
	return &Store{cfg: cfg}
}

// EncodeOptions translates the project format config into engine options.
func (s *Store) EncodeOptions() engine.EncodeOptions {
	return engine.EncodeOptions{
		Indent:          s.cfg.Project.Format.Indent,
		LineWidth:       s.cfg.Project.Format.LineWidth,
		TrailingNewline: s.cfg.Project.Format.TrailingNewline,
	}
}

// EnsureLayout creates the .boardfile directory structure.
func (s *Store) EnsureLayout() error {
	return config.InitBoardfileDir(s.cfg.ProjectDir)
}

// Discover walks the configured boards directory and returns every board
// file path, sorted by the walk order. The .boardfile directory and hidden
// directories are skipped.
func (s *Store) Discover() ([]string, error) {
	root := s.cfg.BoardsDir()
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if name == config.BoardfileDir || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if !s.cfg.Project.Boards.Recurse {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), BoardSuffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: discover boards in %s: %w", root, err)
	}
	return paths, nil
}

// LoadDocument reads and parses one board file. Consolidation warnings are
// carried on the returned document, not treated as errors.
func (s *Store) LoadDocument(path string) (*engine.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	doc, err := engine.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	return doc, nil
}

// LoadBoard loads a document and projects its metadata into the typed model.
func (s *Store) LoadBoard(path string) (*engine.Document, *engine.Board, error) {
	doc, err := s.LoadDocument(path)
	if err != nil {
		return nil, nil, err
	}
	board, err := engine.BoardFromValue(doc.Meta)
	if err != nil {
		return nil, nil, fmt.Errorf("store: %s: %w", path, err)
	}
	return doc, board, nil
}

// SaveDocument serializes the document with the project format options and
// writes it atomically: temp file in the same directory, then rename.
func (s *Store) SaveDocument(path string, doc *engine.Document) error {
	encoded := engine.EncodeDocument(doc, s.EncodeOptions())
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".boardfile-*")
	if err != nil {
		return fmt.Errorf("store: temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}

// SaveBoard projects the board back into the document metadata and saves it.
// The document body is preserved verbatim.
func (s *Store) SaveBoard(path string, doc *engine.Document, board *engine.Board) error {
	doc.Meta = board.Value()
	return s.SaveDocument(path, doc)
}

// ExportTask writes one task as a standalone .boardfile/tasks/<id>.task.md
// document so individual cards can be shared or inspected alone.
func (s *Store) ExportTask(task engine.Task, body string) (string, error) {
	if task.ID == "" {
		return "", fmt.Errorf("store: cannot export a task without an id")
	}
	if err := os.MkdirAll(s.cfg.TasksDir(), 0o755); err != nil {
		return "", fmt.Errorf("store: ensure tasks dir: %w", err)
	}
	meta := task.Value()
	meta = withTypeField(meta)
	doc := &engine.Document{Meta: meta, Body: body}
	path := filepath.Join(s.cfg.TasksDir(), task.ID+TaskSuffix)
	if err := s.SaveDocument(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// ImportTask reads a per-task export back into the typed model.
func (s *Store) ImportTask(path string) (engine.Task, string, error) {
	doc, err := s.LoadDocument(path)
	if err != nil {
		return engine.Task{}, "", err
	}
	task, err := engine.TaskFromValue(doc.Meta)
	if err != nil {
		return engine.Task{}, "", fmt.Errorf("store: %s: %w", path, err)
	}
	return task, doc.Body, nil
}

// withTypeField stamps an explicit type marker so exported files infer as
// tasks regardless of filename.
func withTypeField(meta engine.Value) engine.Value {
	if meta.HasKey("type") {
		return meta
	}
	entries := make([]engine.MapEntry, 0, len(meta.Map)+1)
	entries = append(entries, engine.MapEntry{Key: "type", Value: engine.StringValue("task")})
	entries = append(entries, meta.Map...)
	return engine.MappingValue(entries...)
}
