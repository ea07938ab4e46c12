package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/franz/sfo/internal/analyze"
	"github.com/franz/sfo/internal/util"
)

// Engine manages the ordered rule list and its JSON persistence.
// Rules are kept sorted descending by priority; ties keep insertion order.
type Engine struct {
	mu    sync.RWMutex
	path  string
	rules []*Rule
}

// Load opens the rules file at path, creating it with the default rule set
// when it does not exist yet.
func Load(path string) (*Engine, error) {
	e := &Engine{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		e.rules = defaultRules()
		e.sortRules()
		if err := e.save(); err != nil {
			return nil, err
		}
		util.InfoLog("Created %d default rules at %s", len(e.rules), path)
		return e, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := json.Unmarshal(data, &e.rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	e.sortRules()
	util.InfoLog("Loaded %d rules from %s", len(e.rules), path)
	return e, nil
}

// defaultRules is the rule set generated on first run.
func defaultRules() []*Rule {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }
	b := func(v bool) *bool { return &v }

	return []*Rule{
		{ID: 1, Name: "Screenshots", Pattern: "*screenshot*", PatternKind: PatternGlob,
			TargetFolder: "Screenshots", Priority: 10, Enabled: true},
		{ID: 2, Name: "Downloads", Pattern: "*download*", PatternKind: PatternGlob,
			TargetFolder: "Downloads", Priority: 9, Enabled: true},
		{ID: 3, Name: "Invoices", Pattern: "*invoice*", PatternKind: PatternGlob,
			TargetFolder: "Finance/Invoices", Priority: 8, Enabled: true,
			Conditions: Conditions{Extensions: []string{".pdf"}}},
		{ID: 4, Name: "Large Videos", Pattern: "*.mp4", PatternKind: PatternGlob,
			TargetFolder: "Videos/Large", Priority: 7, Enabled: true,
			Conditions: Conditions{MinSizeMB: f(100)}},
		{ID: 5, Name: "Old Documents", Pattern: "*.pdf", PatternKind: PatternGlob,
			TargetFolder: "Archive/Old", Priority: 6, Enabled: true,
			Conditions: Conditions{OlderThanDays: i(365)}},
		{ID: 6, Name: "Photos with GPS", Pattern: "*.jpg", PatternKind: PatternGlob,
			TargetFolder: "Photos/Locations", Priority: 5, Enabled: true,
			Conditions: Conditions{HasGPS: b(true)}},
	}
}

// Apply evaluates rules in priority order and returns the target folder of
// the first matching enabled rule, or "" when none matches.
func (e *Engine) Apply(path string, analysis *analyze.Result) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, rule := range e.rules {
		if rule.Matches(path, analysis) {
			util.InfoLog("Rule %q matched for %s", rule.Name, filepath.Base(path))
			return rule.TargetFolder
		}
	}

	return ""
}

// Rules returns a snapshot of the rule list in evaluation order.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Add appends a rule, assigns it the next free id when unset, re-sorts and
// persists the full set.
func (e *Engine) Add(rule *Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rule.ID == 0 {
		rule.ID = e.nextID()
	}
	e.rules = append(e.rules, rule)
	e.sortRules()
	return e.save()
}

// Update replaces the rule with the same id.
func (e *Engine) Update(rule *Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, r := range e.rules {
		if r.ID == rule.ID {
			e.rules[i] = rule
			e.sortRules()
			return e.save()
		}
	}
	return fmt.Errorf("rule %d not found", rule.ID)
}

// Remove deletes the rule with the given id.
func (e *Engine) Remove(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.rules[:0]
	for _, r := range e.rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	e.rules = kept
	return e.save()
}

// Toggle flips the enabled flag of the rule with the given id.
func (e *Engine) Toggle(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range e.rules {
		if r.ID == id {
			r.Enabled = !r.Enabled
			return e.save()
		}
	}
	return fmt.Errorf("rule %d not found", id)
}

// NextID returns the next free rule id.
func (e *Engine) NextID() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nextID()
}

func (e *Engine) nextID() int64 {
	var max int64
	for _, r := range e.rules {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// sortRules orders by priority descending; the stable sort keeps insertion
// order for equal priorities.
func (e *Engine) sortRules() {
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority > e.rules[j].Priority
	})
}

// save rewrites the whole rules file. Rule sets are small and edited
// interactively, never on the organize hot path.
func (e *Engine) save() error {
	data, err := json.MarshalIndent(e.rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}

	if err := os.WriteFile(e.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	return nil
}
