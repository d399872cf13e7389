package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"objbrowse/internal/config"
	"objbrowse/internal/inspect"
	"objbrowse/internal/logging"
	"objbrowse/internal/objtree"
	"objbrowse/internal/registry"
	"objbrowse/internal/settings"
	"objbrowse/internal/ui"
)

func main() {
	name := flag.String("name", "demo", "Display name for the inspected object")
	reset := flag.Bool("reset", false, "Discard persisted window settings and start from defaults")
	autoRefresh := flag.Bool("auto-refresh", false, "Start with auto-refresh enabled")
	interval := flag.Int("interval", 0, "Auto-refresh interval in seconds (0 = persisted or default)")
	configPath := flag.String("config", "", "Config file (default ~/.objbrowse/config.toml)")
	logPath := flag.String("log", "", "Log file (default from config; empty disables logging)")
	flag.Parse()

	if err := run(*name, *reset, *autoRefresh, *interval, *configPath, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "objbrowse: %v\n", err)
		os.Exit(1)
	}
}

func run(name string, reset, autoRefresh bool, interval int, configPath, logPath string) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		configPath = p
	}
	cfg := config.Load(configPath)

	if logPath == "" {
		logPath = cfg.Log.File
	}
	if err := logging.Setup(logging.Options{
		Path:       logPath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	// Command-line flags beat the config file beat the persisted settings.
	overrides := cfg.Overrides()
	if autoRefresh {
		overrides.AutoRefresh = &autoRefresh
	}
	if interval > 0 {
		overrides.RefreshSeconds = &interval
	}

	store, closeStore := openStore()
	defer closeStore()

	reg := registry.New()

	runErr := ui.Run(func(post func(func())) (*inspect.Session, error) {
		return inspect.NewSession(reg, store, inspect.Config{
			Object:    demoObject(),
			Name:      name,
			Columns:   objtree.DefaultColumns(),
			Details:   objtree.DefaultDetails(),
			Overrides: overrides,
			Reset:     reset,
			Post:      post,
			NewProvider: func(obj any, name string, _ []inspect.AttrColumn) inspect.TreeProvider {
				return objtree.NewProvider(obj, name)
			},
			NewProxy: func(p inspect.TreeProvider, showCallables, showSpecials bool) inspect.FilterProxy {
				return objtree.NewProxy(p.(*objtree.Provider), showCallables, showSpecials)
			},
		})
	})

	// Every window is closed by now, however the browser exited; a
	// still-occupied slot is a bug.
	reg.VerifyAllReleased()
	return runErr
}

// openStore opens the persistent settings database, falling back to an
// in-memory store when the database cannot be opened. Settings then last for
// the process only, which beats refusing to start.
func openStore() (settings.Store, func()) {
	path, err := config.SettingsDBPath()
	if err == nil {
		var db *settings.SQLiteStore
		if db, err = settings.OpenSQLite(path); err == nil {
			return db, func() { _ = db.Close() }
		}
	}
	fmt.Fprintf(os.Stderr, "objbrowse: settings database unavailable, using in-memory settings: %v\n", err)
	return settings.NewMemoryStore(), func() {}
}

// demoObject builds a small object graph worth poking at: nested structs,
// maps, slices, pointers, unexported state, and methods.
func demoObject() any {
	type endpoint struct {
		Host string
		Port int
	}
	type service struct {
		Name     string
		Started  time.Time
		Replicas int
		Primary  *endpoint
		Backups  []endpoint
		Labels   map[string]string
		healthy  bool
	}
	return &service{
		Name:     "browser-demo",
		Started:  time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
		Replicas: 3,
		Primary:  &endpoint{Host: "10.0.0.7", Port: 8080},
		Backups: []endpoint{
			{Host: "10.0.0.8", Port: 8080},
			{Host: "10.0.0.9", Port: 8080},
		},
		Labels:  map[string]string{"env": "prod", "tier": "web"},
		healthy: true,
	}
}
