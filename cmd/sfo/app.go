package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/franz/sfo/internal/analyze"
	"github.com/franz/sfo/internal/config"
	"github.com/franz/sfo/internal/organize"
	"github.com/franz/sfo/internal/report"
	"github.com/franz/sfo/internal/rules"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

// defaultConfigFile is searched in the working directory when --config is
// not given.
const defaultConfigFile = "sfo-config.json"

// applyLogLevel configures terminal logging from the global flags.
func applyLogLevel() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// configPath resolves the configuration file location.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return defaultConfigFile
}

// loadConfig reads the application configuration, failing with a hint when
// none exists yet.
func loadConfig() (*config.Config, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no configuration at %s (run 'sfo config init' first)", path)
	}
	if err != nil {
		return nil, err
	}
	util.DebugLog("Using config file: %s", path)
	return cfg, nil
}

// app bundles the long-lived pieces every command needs.
type app struct {
	cfg       *config.Config
	store     *store.Store
	rules     *rules.Engine
	organizer *organize.Organizer
	events    *report.EventLogger
}

// openApp wires config, store, rules and the organizer together.
func openApp() (*app, error) {
	applyLogLevel()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	engine, err := rules.Load(rulesPath())
	if err != nil {
		st.Close()
		return nil, err
	}

	// The analyzer always exists: content-conditioned rules need extraction
	// even when ai_classification is off
	analyzer := analyze.New(analyze.ProbeCapabilities())

	a := &app{
		cfg:       cfg,
		store:     st,
		rules:     engine,
		organizer: organize.New(cfg, st, engine, analyzer),
		events:    report.NullLogger(),
	}

	return a, nil
}

// openEvents attaches a JSONL run log, degrading to the null logger when
// the artifacts directory is not writable.
func (a *app) openEvents() {
	level := report.LevelInfo
	if viper.GetBool("quiet") {
		level = report.LevelWarning
	} else if viper.GetBool("verbose") {
		level = report.LevelDebug
	}

	logger, err := report.NewEventLogger("artifacts", level)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		return
	}
	a.events = logger
	util.InfoLog("Event log: %s", logger.Path())
}

func (a *app) close() {
	a.events.Close()
	a.store.Close()
}

// rulesPath keeps the rule set next to the configuration file.
func rulesPath() string {
	return filepath.Join(filepath.Dir(configPath()), "sfo-rules.json")
}

// logOutcome mirrors one pipeline result into the run log.
func (a *app) logOutcome(path string, res *organize.Result) {
	switch res.Outcome {
	case organize.OutcomeDuplicate:
		a.events.LogDuplicate(path, res.Destination, res.Message, res.SizeBytes)
	case organize.OutcomeOrganized:
		a.events.LogOrganize(path, res.Destination, res.Category, string(res.Outcome), res.SizeBytes)
	default:
		a.events.LogError(path, fmt.Errorf("%s", res.Message))
	}
}
