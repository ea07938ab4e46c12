package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/franz/sfo/internal/rules"
	"github.com/franz/sfo/internal/util"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage custom organization rules",
	Long: `Manage the custom rule set.

Rules are evaluated before any other classification tier, highest priority
first. A rule combines a filename pattern (glob or regular expression) with
optional size, age, extension and content conditions.`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in evaluation order",
	RunE:  runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule",
	Long: `Add a rule.

The pattern kind defaults to auto: patterns containing regex metacharacters
([ ] ( ) ^ $ +) are treated as regular expressions, anything else as a
shell glob. Use --kind to force one interpretation.`,
	RunE: runRulesAdd,
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesRemove,
}

var rulesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesToggle,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesRemoveCmd, rulesToggleCmd)

	f := rulesAddCmd.Flags()
	f.String("name", "", "rule name (required)")
	f.String("pattern", "", "filename pattern (required)")
	f.String("kind", "auto", "pattern interpretation: auto, glob or regex")
	f.String("target", "", "target folder relative to the organized folder (required)")
	f.Int("priority", 0, "evaluation priority (higher first)")
	f.Float64("min-size", 0, "minimum file size in MB")
	f.Float64("max-size", 0, "maximum file size in MB")
	f.Int("older-than", 0, "minimum file age in days")
	f.Int("newer-than", 0, "maximum file age in days")
	f.StringSlice("ext", nil, "restrict to extensions, e.g. --ext .pdf,.docx")
	f.String("contains", "", "require extracted text to contain this phrase")
	f.Bool("has-gps", false, "require GPS coordinates in the file metadata")

	rulesAddCmd.MarkFlagRequired("name")
	rulesAddCmd.MarkFlagRequired("pattern")
	rulesAddCmd.MarkFlagRequired("target")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	list := a.rules.Rules()
	if len(list) == 0 {
		util.InfoLog("No rules defined")
		return nil
	}

	for _, r := range list {
		state := " "
		if !r.Enabled {
			state = "off"
		}
		fmt.Printf("%3d  [%3s]  p%-3d  %-20s  %s (%s) -> %s\n",
			r.ID, state, r.Priority, r.Name, r.Pattern, r.EffectiveKind(), r.TargetFolder)
		if !r.Conditions.Empty() {
			fmt.Printf("             %s\n", describeConditions(&r.Conditions))
		}
	}
	return nil
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	f := cmd.Flags()
	kind, _ := f.GetString("kind")
	switch rules.PatternKind(kind) {
	case rules.PatternAuto, rules.PatternGlob, rules.PatternRegex:
	default:
		return fmt.Errorf("invalid --kind %q (want auto, glob or regex)", kind)
	}

	rule := &rules.Rule{
		Name:        mustString(f.GetString("name")),
		Pattern:     mustString(f.GetString("pattern")),
		PatternKind: rules.PatternKind(kind),
		Enabled:     true,
	}
	rule.TargetFolder = mustString(f.GetString("target"))
	rule.Priority, _ = f.GetInt("priority")

	if f.Changed("min-size") {
		v, _ := f.GetFloat64("min-size")
		rule.Conditions.MinSizeMB = &v
	}
	if f.Changed("max-size") {
		v, _ := f.GetFloat64("max-size")
		rule.Conditions.MaxSizeMB = &v
	}
	if f.Changed("older-than") {
		v, _ := f.GetInt("older-than")
		rule.Conditions.OlderThanDays = &v
	}
	if f.Changed("newer-than") {
		v, _ := f.GetInt("newer-than")
		rule.Conditions.NewerThanDays = &v
	}
	if f.Changed("ext") {
		rule.Conditions.Extensions, _ = f.GetStringSlice("ext")
	}
	if f.Changed("contains") {
		rule.Conditions.ContainsText, _ = f.GetString("contains")
	}
	if f.Changed("has-gps") {
		v, _ := f.GetBool("has-gps")
		rule.Conditions.HasGPS = &v
	}

	if err := a.rules.Add(rule); err != nil {
		return err
	}

	util.SuccessLog("Added rule %d: %s (%s pattern)", rule.ID, rule.Name, rule.EffectiveKind())
	return nil
}

func runRulesRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid rule id %q", args[0])
	}

	if err := a.rules.Remove(id); err != nil {
		return err
	}
	util.SuccessLog("Removed rule %d", id)
	return nil
}

func runRulesToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid rule id %q", args[0])
	}

	if err := a.rules.Toggle(id); err != nil {
		return err
	}
	util.SuccessLog("Toggled rule %d", id)
	return nil
}

func describeConditions(c *rules.Conditions) string {
	var parts []string
	if c.MinSizeMB != nil {
		parts = append(parts, fmt.Sprintf("size >= %.1fMB", *c.MinSizeMB))
	}
	if c.MaxSizeMB != nil {
		parts = append(parts, fmt.Sprintf("size <= %.1fMB", *c.MaxSizeMB))
	}
	if c.OlderThanDays != nil {
		parts = append(parts, fmt.Sprintf("older than %dd", *c.OlderThanDays))
	}
	if c.NewerThanDays != nil {
		parts = append(parts, fmt.Sprintf("newer than %dd", *c.NewerThanDays))
	}
	if len(c.Extensions) > 0 {
		parts = append(parts, "ext in "+strings.Join(c.Extensions, ","))
	}
	if c.ContainsText != "" {
		parts = append(parts, fmt.Sprintf("text contains %q", c.ContainsText))
	}
	if c.HasGPS != nil {
		parts = append(parts, fmt.Sprintf("gps=%t", *c.HasGPS))
	}
	return strings.Join(parts, ", ")
}

func mustString(v string, _ error) string { return v }
