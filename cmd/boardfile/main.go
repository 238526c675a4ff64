// Command boardfile works with markdown task boards: documents whose YAML
// frontmatter holds the board structure and whose body stays free-form.
// It validates, formats, hashes, diffs, and views *.board.md files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"boardfile/internal/board"
	"boardfile/internal/config"
	"boardfile/internal/engine"
	"boardfile/internal/formatters"
	"boardfile/internal/logging"
	"boardfile/internal/store"
	"boardfile/internal/templates"
	"boardfile/internal/tui"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Dir     string `help:"Project directory." default:"." type:"path"`
	Verbose bool   `short:"v" help:"Mirror the activity log to stderr."`
}

// CLI defines the command-line interface for boardfile.
var CLI struct {
	Globals

	Init     InitCmd     `cmd:"" help:"Create the .boardfile directory and default config"`
	Validate ValidateCmd `cmd:"" help:"Validate board files and report every issue"`
	Fmt      FmtCmd      `cmd:"" help:"Rewrite board files in canonical form"`
	Hash     HashCmd     `cmd:"" help:"Print content hashes and refresh the index"`
	Diff     DiffCmd     `cmd:"" help:"Compare two board files"`
	Locate   LocateGroup `cmd:"" help:"Find source lines for tasks and rules"`
	New      NewCmd      `cmd:"" help:"Add a task from a template"`
	Status   StatusCmd   `cmd:"" help:"Summarize every board and flag stale index entries"`
	Export   ExportCmd   `cmd:"" help:"Export one task as JSON, markdown, or a task file"`
	View     ViewCmd     `cmd:"" help:"Open the interactive board viewer"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// appEnv bundles the loaded config, store, and logger for one invocation.
type appEnv struct {
	cfg   *config.Config
	store *store.Store
	log   *logging.Logger
}

func newEnv(g *Globals) (*appEnv, error) {
	cfg, err := config.NewConfig(g.Dir)
	if err != nil {
		return nil, err
	}
	logCfg := cfg.Project.Logging
	if g.Verbose {
		logCfg.Stderr = true
	}
	logger := logging.Discard()
	if _, err := os.Stat(cfg.BoardfileProjectDir); err == nil {
		if fileLogger, err := logging.New(g.Dir, logCfg); err == nil {
			logger = fileLogger
		}
	}
	return &appEnv{cfg: cfg, store: store.New(cfg), log: logger}, nil
}

func (e *appEnv) close() {
	e.log.Close()
}

// boardPaths resolves explicit arguments or falls back to discovery.
func (e *appEnv) boardPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	paths, err := e.store.Discover()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s files found under %s", store.BoardSuffix, e.cfg.BoardsDir())
	}
	return paths, nil
}

func printWarnings(path string, doc *engine.Document) {
	for _, w := range doc.Warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, w)
	}
}

// InitCmd creates the project layout.
type InitCmd struct{}

func (c *InitCmd) Run(g *Globals) error {
	if err := config.InitBoardfileDir(g.Dir); err != nil {
		return err
	}
	fmt.Printf("initialized %s\n", filepath.Join(g.Dir, config.BoardfileDir))
	return nil
}

// ValidateCmd checks boards and prints every issue with its path.
type ValidateCmd struct {
	Paths []string `arg:"" optional:"" help:"Board files to validate (default: discover)" type:"existingfile"`
}

func (c *ValidateCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	paths, err := env.boardPaths(c.Paths)
	if err != nil {
		return err
	}
	failed := 0
	for _, path := range paths {
		doc, err := env.store.LoadDocument(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failed++
			continue
		}
		printWarnings(path, doc)
		kind, _ := engine.InferType(doc.Meta, path, nil)
		if kind != engine.DocKindBoard {
			fmt.Printf("%s: skipped (%s document)\n", path, kind)
			continue
		}
		issues := engine.ValidateBoard(doc.Meta)
		if len(issues) == 0 {
			fmt.Printf("%s: ok\n", path)
			continue
		}
		failed++
		for _, issue := range issues {
			fmt.Printf("%s: %s\n", path, issue)
		}
		env.log.WithField("path", path).Warnf("validation found %d issues", len(issues))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(paths))
	}
	return nil
}

// FmtCmd rewrites boards with the configured serialization options.
type FmtCmd struct {
	Paths []string `arg:"" optional:"" help:"Board files to format (default: discover)" type:"existingfile"`
	Check bool     `help:"List files that would change without writing."`
}

func (c *FmtCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	paths, err := env.boardPaths(c.Paths)
	if err != nil {
		return err
	}
	dirty := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := engine.Parse(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		printWarnings(path, doc)
		formatted := engine.EncodeDocument(doc, env.store.EncodeOptions())
		if formatted == string(data) {
			continue
		}
		dirty++
		if c.Check {
			fmt.Println(path)
			continue
		}
		if err := env.store.SaveDocument(path, doc); err != nil {
			return err
		}
		env.log.WithField("path", path).Info("reformatted")
		fmt.Printf("formatted %s\n", path)
	}
	if c.Check && dirty > 0 {
		return fmt.Errorf("%d files need formatting", dirty)
	}
	return nil
}

// HashCmd prints hashes and records them in the SQLite index.
type HashCmd struct {
	Paths []string `arg:"" optional:"" help:"Board files to hash (default: discover)" type:"existingfile"`
	Meta  bool     `help:"Hash only the metadata, ignoring the body."`
}

func (c *HashCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	paths, err := env.boardPaths(c.Paths)
	if err != nil {
		return err
	}
	ix, err := openIndex(env)
	if err != nil {
		return err
	}
	defer ix.Close()
	for _, path := range paths {
		doc, boardModel, err := env.store.LoadBoard(path)
		if err != nil {
			return err
		}
		hash := engine.HashDocument(doc)
		if c.Meta {
			hash = engine.HashMetadata(doc.Meta)
		}
		fmt.Printf("%s  %s\n", hash, path)
		if ix != nil {
			if err := ix.Record(path, engine.HashDocument(doc), boardModel.TaskCount()); err != nil {
				return err
			}
		}
	}
	return nil
}

// openIndex opens the index when the project layout exists; commands still
// work in a bare directory, they just skip recording.
func openIndex(env *appEnv) (*store.Index, error) {
	if _, err := os.Stat(env.cfg.BoardfileProjectDir); err != nil {
		return nil, nil
	}
	return store.OpenIndex(env.cfg.IndexPath())
}

// DiffCmd compares two board files, structurally by default.
type DiffCmd struct {
	Before  string `arg:"" help:"Old board file" type:"existingfile"`
	After   string `arg:"" help:"New board file" type:"existingfile"`
	Text    bool   `help:"Print a unified text diff instead of a structural one."`
	Context int    `default:"3" help:"Context lines for --text."`
}

func (c *DiffCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	if c.Text {
		from, err := os.ReadFile(c.Before)
		if err != nil {
			return err
		}
		to, err := os.ReadFile(c.After)
		if err != nil {
			return err
		}
		diff, err := engine.UnifiedTextDiff(c.Before, c.After, string(from), string(to), c.Context)
		if err != nil {
			return err
		}
		fmt.Print(diff)
		return nil
	}

	_, before, err := env.store.LoadBoard(c.Before)
	if err != nil {
		return err
	}
	_, after, err := env.store.LoadBoard(c.After)
	if err != nil {
		return err
	}
	for _, change := range engine.DiffBoards(before, after) {
		switch change.Kind {
		case engine.ChangeModified:
			fmt.Printf("~ %s %s: %q -> %q\n", change.Path, change.Field, change.Old, change.New)
		case engine.ChangeAdded:
			fmt.Printf("+ %s\n", change.Path)
		case engine.ChangeRemoved:
			fmt.Printf("- %s\n", change.Path)
		}
	}
	return nil
}

// LocateGroup holds the line-lookup subcommands.
type LocateGroup struct {
	Task LocateTaskCmd `cmd:"" help:"Find the source line of a task"`
	Rule LocateRuleCmd `cmd:"" help:"Find the source line of a rule"`
}

// LocateTaskCmd prints file:line:column for a task id.
type LocateTaskCmd struct {
	Path string `arg:"" help:"Board file" type:"existingfile"`
	ID   string `arg:"" help:"Task id"`
}

func (c *LocateTaskCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	loc, ok := engine.FindTaskLocation(string(data), c.ID)
	if !ok {
		return fmt.Errorf("task %q not found in %s", c.ID, c.Path)
	}
	fmt.Printf("%s:%d:%d\n", c.Path, loc.Line, loc.Column)
	return nil
}

// LocateRuleCmd prints file:line:column for a rule id within a rule type.
type LocateRuleCmd struct {
	Path string `arg:"" help:"Board file" type:"existingfile"`
	Type string `arg:"" help:"Rule type: always, never, prefer, or context" enum:"always,never,prefer,context"`
	ID   int    `arg:"" help:"Rule id"`
}

func (c *LocateRuleCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	loc, ok := engine.FindRuleLocation(string(data), c.ID, c.Type)
	if !ok {
		return fmt.Errorf("rule %s/%d not found in %s", c.Type, c.ID, c.Path)
	}
	fmt.Printf("%s:%d:%d\n", c.Path, loc.Line, loc.Column)
	return nil
}

// NewCmd instantiates a template task onto a board.
type NewCmd struct {
	Board    string `arg:"" help:"Board file" type:"existingfile"`
	Title    string `arg:"" help:"Task title"`
	Template string `short:"t" default:"feature" help:"Template: bug, feature, or refactor."`
	Column   string `short:"c" help:"Destination column id (default: first column)."`
}

func (c *NewCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	doc, boardModel, err := env.store.LoadBoard(c.Board)
	if err != nil {
		return err
	}
	task, err := templates.NewTask(c.Template, c.Title)
	if err != nil {
		return err
	}
	columnID := c.Column
	if columnID == "" {
		if len(boardModel.Columns) == 0 {
			return fmt.Errorf("%s has no columns", c.Board)
		}
		columnID = boardModel.Columns[0].ID
	}
	updated, err := board.AddTask(boardModel, columnID, task)
	if err != nil {
		return err
	}
	if err := env.store.SaveBoard(c.Board, doc, updated); err != nil {
		return err
	}
	env.log.WithField("task", task.ID).WithField("board", c.Board).Info("task created")
	fmt.Printf("added %s to %s/%s\n", task.ID, c.Board, columnID)
	return nil
}

// StatusCmd prints a per-board summary and marks boards whose content no
// longer matches the index.
type StatusCmd struct{}

func (c *StatusCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	paths, err := env.boardPaths(nil)
	if err != nil {
		return err
	}
	ix, err := openIndex(env)
	if err != nil {
		return err
	}
	defer ix.Close()
	for _, path := range paths {
		doc, boardModel, err := env.store.LoadBoard(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			continue
		}
		marker := ""
		if ix != nil {
			stale, err := ix.Stale(path, engine.HashDocument(doc))
			if err != nil {
				return err
			}
			if stale {
				marker = " (changed since last hash)"
			}
		}
		fmt.Printf("%s%s\n", path, marker)
		fmt.Print(formatters.BoardSummary(boardModel))
		fmt.Println()
	}
	return nil
}

// ExportCmd projects one task into an exchange format.
type ExportCmd struct {
	Board  string `arg:"" help:"Board file" type:"existingfile"`
	Task   string `arg:"" help:"Task id"`
	Format string `default:"json" enum:"json,markdown,file" help:"Output format."`
}

func (c *ExportCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	_, boardModel, err := env.store.LoadBoard(c.Board)
	if err != nil {
		return err
	}
	task, column, ok := boardModel.FindTask(c.Task)
	if !ok {
		return fmt.Errorf("task %q not found in %s", c.Task, c.Board)
	}
	switch c.Format {
	case "json":
		data, err := formatters.JSONTicket(task, column)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "markdown":
		fmt.Print(formatters.GitHubIssue(task, column))
	case "file":
		path, err := env.store.ExportTask(task, "")
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

// ViewCmd opens the interactive viewer.
type ViewCmd struct {
	Paths []string `arg:"" optional:"" help:"Board files to open (default: discover)" type:"existingfile"`
}

func (c *ViewCmd) Run(g *Globals) error {
	env, err := newEnv(g)
	if err != nil {
		return err
	}
	defer env.close()
	paths, err := env.boardPaths(c.Paths)
	if err != nil {
		return err
	}
	refs := make([]tui.BoardRef, 0, len(paths))
	for _, path := range paths {
		doc, boardModel, err := env.store.LoadBoard(path)
		if err != nil {
			return err
		}
		refs = append(refs, tui.BoardRef{Path: path, Doc: doc, Board: boardModel})
	}
	return tui.Run(refs)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("boardfile %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("boardfile"),
		kong.Description("Markdown task boards with YAML frontmatter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Bind(&CLI.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
