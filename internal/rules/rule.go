// Package rules implements user-defined organization rules: ordered
// pattern + condition rules that preempt every other classification tier.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/franz/sfo/internal/analyze"
)

// PatternKind selects how a rule's filename pattern is interpreted.
type PatternKind string

const (
	// PatternAuto sniffs the pattern: regex metacharacters imply regex,
	// anything else is a glob. Kept for rule files that predate the
	// explicit kind field.
	PatternAuto  PatternKind = "auto"
	PatternGlob  PatternKind = "glob"
	PatternRegex PatternKind = "regex"
)

// regexHint contains the characters whose presence makes an auto pattern
// a regular expression.
const regexHint = "[]()^$+"

// Conditions are the additional constraints a rule can impose beyond its
// filename pattern. All present conditions must hold. Pointer fields
// distinguish "absent" from zero values.
type Conditions struct {
	MinSizeMB     *float64 `json:"min_size_mb,omitempty"`
	MaxSizeMB     *float64 `json:"max_size_mb,omitempty"`
	OlderThanDays *int     `json:"older_than_days,omitempty"`
	NewerThanDays *int     `json:"newer_than_days,omitempty"`
	Extensions    []string `json:"extensions,omitempty"`
	ContainsText  string   `json:"contains_text,omitempty"`
	HasGPS        *bool    `json:"has_gps,omitempty"`
}

// Empty reports whether no condition is set.
func (c *Conditions) Empty() bool {
	return c.MinSizeMB == nil && c.MaxSizeMB == nil &&
		c.OlderThanDays == nil && c.NewerThanDays == nil &&
		len(c.Extensions) == 0 && c.ContainsText == "" && c.HasGPS == nil
}

// Rule is a single organization rule.
type Rule struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Pattern      string      `json:"pattern"`
	PatternKind  PatternKind `json:"pattern_kind,omitempty"`
	TargetFolder string      `json:"target_folder"`
	Conditions   Conditions  `json:"conditions"`
	Priority     int         `json:"priority"`
	Enabled      bool        `json:"enabled"`
}

// EffectiveKind resolves PatternAuto (and the empty legacy value) via the
// character-sniffing heuristic.
func (r *Rule) EffectiveKind() PatternKind {
	if r.PatternKind == PatternGlob || r.PatternKind == PatternRegex {
		return r.PatternKind
	}
	if strings.ContainsAny(r.Pattern, regexHint) {
		return PatternRegex
	}
	return PatternGlob
}

// Matches reports whether the file at path satisfies this rule. analysis may
// be nil when no content extraction ran; conditions that need content data
// then fail the rule rather than erroring.
func (r *Rule) Matches(path string, analysis *analyze.Result) bool {
	if !r.Enabled {
		return false
	}

	ok, err := r.matchPattern(filepath.Base(path))
	if err != nil || !ok {
		return false
	}

	return r.checkConditions(path, analysis)
}

func (r *Rule) matchPattern(filename string) (bool, error) {
	switch r.EffectiveKind() {
	case PatternRegex:
		// Case-insensitive, anchored at the start of the filename
		re, err := regexp.Compile(`(?i)^(?:` + r.Pattern + `)`)
		if err != nil {
			return false, fmt.Errorf("invalid regex pattern %q: %w", r.Pattern, err)
		}
		return re.MatchString(filename), nil
	default:
		return filepath.Match(r.Pattern, filename)
	}
}

func (r *Rule) checkConditions(path string, analysis *analyze.Result) bool {
	if r.Conditions.Empty() {
		return true
	}

	c := &r.Conditions

	if c.MinSizeMB != nil || c.MaxSizeMB != nil || c.OlderThanDays != nil || c.NewerThanDays != nil {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}

		sizeMB := float64(info.Size()) / (1024 * 1024)
		if c.MinSizeMB != nil && sizeMB < *c.MinSizeMB {
			return false
		}
		if c.MaxSizeMB != nil && sizeMB > *c.MaxSizeMB {
			return false
		}

		ageDays := int(time.Since(info.ModTime()).Hours() / 24)
		if c.OlderThanDays != nil && ageDays < *c.OlderThanDays {
			return false
		}
		if c.NewerThanDays != nil && ageDays > *c.NewerThanDays {
			return false
		}
	}

	if len(c.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		found := false
		for _, want := range c.Extensions {
			if ext == strings.ToLower(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Content-derived conditions: absent analysis means non-matching,
	// not an error
	if c.ContainsText != "" {
		if analysis == nil {
			return false
		}
		if !strings.Contains(strings.ToLower(analysis.Text), strings.ToLower(c.ContainsText)) {
			return false
		}
	}

	if c.HasGPS != nil {
		if analysis == nil || analysis.Metadata.HasGPS == nil {
			return false
		}
		if *analysis.Metadata.HasGPS != *c.HasGPS {
			return false
		}
	}

	return true
}
