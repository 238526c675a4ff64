package engine

import "fmt"

// Board is the typed task-board model projected from a validated metadata
// tree. It is a value: mutation helpers elsewhere produce new Boards rather
// than editing in place.
type Board struct {
	Title             string
	ProtocolVersion   string
	Schema            string
	AgentInstructions []string
	Rules             *Rules
	StatsConfig       *StatsConfig
	Columns           []Column
	Archive           []Task
}

// Rules holds four independent ordered rule lists keyed by rule type.
type Rules struct {
	Always  []Rule
	Never   []Rule
	Prefer  []Rule
	Context []Rule
}

// Rule is one entry of a rule-type list. IDs are unique only within their
// own list, never globally.
type Rule struct {
	ID   int
	Rule string
}

// StatsConfig selects which columns feed the stats display, at most four.
type StatsConfig struct {
	Columns []string
}

// Column is an ordered lane of tasks. IDs are unique within a board after
// consolidation.
type Column struct {
	ID    string
	Title string
	Tasks []Task
}

// Task is a single card. IDs are opaque strings expected, not enforced, to
// be globally unique so location lookups stay meaningful.
type Task struct {
	ID           string
	Title        string
	Description  string
	RelatedFiles []string
	Assignee     string
	Tags         []string
	Priority     string
	DueDate      string
	Subtasks     []Subtask
	Template     string
}

// Subtask is a checklist entry under a task.
type Subtask struct {
	ID        string
	Title     string
	Completed bool
}

// BoardFromValue projects a decoded metadata tree into the typed model.
// Callers should validate the tree first; the projection still reports an
// explicit error on shapes it cannot represent.
func BoardFromValue(meta Value) (*Board, error) {
	if meta.Kind != KindMapping {
		return nil, fmt.Errorf("engine: board metadata must be a mapping, got %s", meta.Kind)
	}
	board := &Board{}
	board.Title = stringField(meta, "title")
	board.ProtocolVersion = stringField(meta, "protocolVersion")
	board.Schema = stringField(meta, "schema")
	if agent, ok := meta.Get("agent"); ok {
		board.AgentInstructions = stringSliceField(agent, "instructions")
	}
	if rules, ok := meta.Get("rules"); ok && rules.Kind == KindMapping {
		board.Rules = &Rules{
			Always:  rulesFromValue(rules, "always"),
			Never:   rulesFromValue(rules, "never"),
			Prefer:  rulesFromValue(rules, "prefer"),
			Context: rulesFromValue(rules, "context"),
		}
	}
	if stats, ok := meta.Get("statsConfig"); ok && stats.Kind == KindMapping {
		board.StatsConfig = &StatsConfig{Columns: stringSliceField(stats, "columns")}
	}
	cols, ok := meta.Get("columns")
	if !ok || cols.Kind != KindSequence {
		return nil, fmt.Errorf("engine: board metadata is missing a columns array")
	}
	for i, col := range cols.Seq {
		column, err := columnFromValue(col)
		if err != nil {
			return nil, fmt.Errorf("engine: columns[%d]: %w", i, err)
		}
		board.Columns = append(board.Columns, column)
	}
	if archive, ok := meta.Get("archive"); ok && archive.Kind == KindSequence {
		for i, t := range archive.Seq {
			task, err := TaskFromValue(t)
			if err != nil {
				return nil, fmt.Errorf("engine: archive[%d]: %w", i, err)
			}
			board.Archive = append(board.Archive, task)
		}
	}
	return board, nil
}

func columnFromValue(v Value) (Column, error) {
	if v.Kind != KindMapping {
		return Column{}, fmt.Errorf("column must be a mapping, got %s", v.Kind)
	}
	column := Column{
		ID:    stringField(v, "id"),
		Title: stringField(v, "title"),
	}
	if tasks, ok := v.Get("tasks"); ok && tasks.Kind == KindSequence {
		for i, t := range tasks.Seq {
			task, err := TaskFromValue(t)
			if err != nil {
				return Column{}, fmt.Errorf("tasks[%d]: %w", i, err)
			}
			column.Tasks = append(column.Tasks, task)
		}
	}
	return column, nil
}

// TaskFromValue projects one decoded task mapping into the typed model.
func TaskFromValue(v Value) (Task, error) {
	if v.Kind != KindMapping {
		return Task{}, fmt.Errorf("task must be a mapping, got %s", v.Kind)
	}
	task := Task{
		ID:           stringField(v, "id"),
		Title:        stringField(v, "title"),
		Description:  stringField(v, "description"),
		RelatedFiles: stringSliceField(v, "relatedFiles"),
		Assignee:     stringField(v, "assignee"),
		Tags:         stringSliceField(v, "tags"),
		Priority:     stringField(v, "priority"),
		DueDate:      stringField(v, "dueDate"),
		Template:     stringField(v, "template"),
	}
	if subtasks, ok := v.Get("subtasks"); ok && subtasks.Kind == KindSequence {
		for i, s := range subtasks.Seq {
			if s.Kind != KindMapping {
				return Task{}, fmt.Errorf("subtasks[%d]: must be a mapping, got %s", i, s.Kind)
			}
			completed, _ := s.Get("completed")
			task.Subtasks = append(task.Subtasks, Subtask{
				ID:        stringField(s, "id"),
				Title:     stringField(s, "title"),
				Completed: completed.Kind == KindBool && completed.Bool,
			})
		}
	}
	return task, nil
}

func rulesFromValue(rules Value, ruleType string) []Rule {
	list, ok := rules.Get(ruleType)
	if !ok || list.Kind != KindSequence {
		return nil
	}
	out := make([]Rule, 0, len(list.Seq))
	for _, item := range list.Seq {
		if item.Kind != KindMapping {
			continue
		}
		id, _ := item.Get("id")
		out = append(out, Rule{
			ID:   int(id.Number),
			Rule: stringField(item, "rule"),
		})
	}
	return out
}

func stringField(parent Value, key string) string {
	v, ok := parent.Get(key)
	if !ok {
		return ""
	}
	text, _ := scalarText(v)
	return text
}

func stringSliceField(parent Value, key string) []string {
	list, ok := parent.Get(key)
	if !ok || list.Kind != KindSequence {
		return nil
	}
	out := make([]string, 0, len(list.Seq))
	for _, item := range list.Seq {
		text, _ := scalarText(item)
		out = append(out, text)
	}
	return out
}

// Value renders the board back into a metadata tree with a stable field
// order. Optional fields that are unset are omitted entirely.
func (b *Board) Value() Value {
	entries := []MapEntry{{Key: "title", Value: StringValue(b.Title)}}
	if b.ProtocolVersion != "" {
		entries = append(entries, MapEntry{Key: "protocolVersion", Value: StringValue(b.ProtocolVersion)})
	}
	if b.Schema != "" {
		entries = append(entries, MapEntry{Key: "schema", Value: StringValue(b.Schema)})
	}
	if len(b.AgentInstructions) > 0 {
		entries = append(entries, MapEntry{Key: "agent", Value: MappingValue(
			MapEntry{Key: "instructions", Value: stringSequence(b.AgentInstructions)},
		)})
	}
	if b.Rules != nil {
		if rules := b.Rules.value(); len(rules.Map) > 0 {
			entries = append(entries, MapEntry{Key: "rules", Value: rules})
		}
	}
	if b.StatsConfig != nil && len(b.StatsConfig.Columns) > 0 {
		entries = append(entries, MapEntry{Key: "statsConfig", Value: MappingValue(
			MapEntry{Key: "columns", Value: stringSequence(b.StatsConfig.Columns)},
		)})
	}
	cols := make([]Value, len(b.Columns))
	for i, col := range b.Columns {
		cols[i] = col.value()
	}
	entries = append(entries, MapEntry{Key: "columns", Value: Value{Kind: KindSequence, Seq: cols}})
	if len(b.Archive) > 0 {
		archived := make([]Value, len(b.Archive))
		for i, task := range b.Archive {
			archived[i] = task.Value()
		}
		entries = append(entries, MapEntry{Key: "archive", Value: Value{Kind: KindSequence, Seq: archived}})
	}
	return MappingValue(entries...)
}

func (r *Rules) value() Value {
	var entries []MapEntry
	appendList := func(key string, rules []Rule) {
		if len(rules) == 0 {
			return
		}
		items := make([]Value, len(rules))
		for i, rule := range rules {
			items[i] = MappingValue(
				MapEntry{Key: "id", Value: NumberValue(float64(rule.ID))},
				MapEntry{Key: "rule", Value: StringValue(rule.Rule)},
			)
		}
		entries = append(entries, MapEntry{Key: key, Value: Value{Kind: KindSequence, Seq: items}})
	}
	appendList("always", r.Always)
	appendList("never", r.Never)
	appendList("prefer", r.Prefer)
	appendList("context", r.Context)
	return MappingValue(entries...)
}

func (c Column) value() Value {
	tasks := make([]Value, len(c.Tasks))
	for i, task := range c.Tasks {
		tasks[i] = task.Value()
	}
	return MappingValue(
		MapEntry{Key: "id", Value: StringValue(c.ID)},
		MapEntry{Key: "title", Value: StringValue(c.Title)},
		MapEntry{Key: "tasks", Value: Value{Kind: KindSequence, Seq: tasks}},
	)
}

// Value renders the task as a metadata mapping, omitting unset optionals.
func (t Task) Value() Value {
	entries := []MapEntry{
		{Key: "id", Value: StringValue(t.ID)},
		{Key: "title", Value: StringValue(t.Title)},
	}
	if t.Description != "" {
		entries = append(entries, MapEntry{Key: "description", Value: StringValue(t.Description)})
	}
	if len(t.RelatedFiles) > 0 {
		entries = append(entries, MapEntry{Key: "relatedFiles", Value: stringSequence(t.RelatedFiles)})
	}
	if t.Assignee != "" {
		entries = append(entries, MapEntry{Key: "assignee", Value: StringValue(t.Assignee)})
	}
	if len(t.Tags) > 0 {
		entries = append(entries, MapEntry{Key: "tags", Value: stringSequence(t.Tags)})
	}
	if t.Priority != "" {
		entries = append(entries, MapEntry{Key: "priority", Value: StringValue(t.Priority)})
	}
	if t.DueDate != "" {
		entries = append(entries, MapEntry{Key: "dueDate", Value: StringValue(t.DueDate)})
	}
	if len(t.Subtasks) > 0 {
		subs := make([]Value, len(t.Subtasks))
		for i, sub := range t.Subtasks {
			subs[i] = MappingValue(
				MapEntry{Key: "id", Value: StringValue(sub.ID)},
				MapEntry{Key: "title", Value: StringValue(sub.Title)},
				MapEntry{Key: "completed", Value: BoolValue(sub.Completed)},
			)
		}
		entries = append(entries, MapEntry{Key: "subtasks", Value: Value{Kind: KindSequence, Seq: subs}})
	}
	if t.Template != "" {
		entries = append(entries, MapEntry{Key: "template", Value: StringValue(t.Template)})
	}
	return MappingValue(entries...)
}

func stringSequence(values []string) Value {
	items := make([]Value, len(values))
	for i, v := range values {
		items[i] = StringValue(v)
	}
	return Value{Kind: KindSequence, Seq: items}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := *b
	clone.AgentInstructions = cloneStrings(b.AgentInstructions)
	if b.Rules != nil {
		rules := Rules{
			Always:  cloneRules(b.Rules.Always),
			Never:   cloneRules(b.Rules.Never),
			Prefer:  cloneRules(b.Rules.Prefer),
			Context: cloneRules(b.Rules.Context),
		}
		clone.Rules = &rules
	}
	if b.StatsConfig != nil {
		clone.StatsConfig = &StatsConfig{Columns: cloneStrings(b.StatsConfig.Columns)}
	}
	clone.Columns = make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		clone.Columns[i] = col.clone()
	}
	clone.Archive = cloneTasks(b.Archive)
	return &clone
}

func (c Column) clone() Column {
	out := c
	out.Tasks = cloneTasks(c.Tasks)
	return out
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.RelatedFiles = cloneStrings(t.RelatedFiles)
	out.Tags = cloneStrings(t.Tags)
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	return out
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, task := range tasks {
		out[i] = task.Clone()
	}
	return out
}

func cloneRules(rules []Rule) []Rule {
	if rules == nil {
		return nil
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// RuleLists returns the four rule lists in canonical order with their names.
func (r *Rules) RuleLists() []struct {
	Type  string
	Rules []Rule
} {
	return []struct {
		Type  string
		Rules []Rule
	}{
		{"always", r.Always},
		{"never", r.Never},
		{"prefer", r.Prefer},
		{"context", r.Context},
	}
}

// FindTask returns the task with the given id and the id of the column that
// holds it. Archived tasks report the pseudo column "archive".
func (b *Board) FindTask(id string) (Task, string, bool) {
	for _, col := range b.Columns {
		for _, task := range col.Tasks {
			if task.ID == id {
				return task, col.ID, true
			}
		}
	}
	for _, task := range b.Archive {
		if task.ID == id {
			return task, "archive", true
		}
	}
	return Task{}, "", false
}

// FindColumn returns the column with the given id.
func (b *Board) FindColumn(id string) (Column, bool) {
	for _, col := range b.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// TaskCount counts tasks across all columns, excluding the archive.
func (b *Board) TaskCount() int {
	total := 0
	for _, col := range b.Columns {
		total += len(col.Tasks)
	}
	return total
}
