// Command netwalk is the CLI front-end for the discovery engine: it loads
// configuration and seeds, wires C1-C9 together, runs one discovery walk,
// and maps the result onto the frozen exit-code contract of spec §6.
//
// Grounded on the teacher's cmd/discovery/main.go flag-parsing/bootstrap
// shape (flag.String/flag.Bool package vars, loadConfig, log.Fatalf-style
// error reporting) and pkg/lifecycle/server.go's signal-driven shutdown,
// here reworked into a CLI batch tool rather than a long-running gRPC
// server: run one walk to completion (or cancellation), print a summary,
// exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/term"

	"github.com/lumatek/netwalk/pkg/collector"
	"github.com/lumatek/netwalk/pkg/config"
	"github.com/lumatek/netwalk/pkg/discovery"
	"github.com/lumatek/netwalk/pkg/filter"
	"github.com/lumatek/netwalk/pkg/inventory"
	"github.com/lumatek/netwalk/pkg/lifecycle"
	"github.com/lumatek/netwalk/pkg/logger"
	"github.com/lumatek/netwalk/pkg/model"
	"github.com/lumatek/netwalk/pkg/platform"
	"github.com/lumatek/netwalk/pkg/report"
	"github.com/lumatek/netwalk/pkg/secret"
	"github.com/lumatek/netwalk/pkg/seedfile"
	"github.com/lumatek/netwalk/pkg/transport"
)

// version is a fixed constant printed by --version; the teacher's multi-service build-version
// package (pkg/version) was dropped (see DESIGN.md) since this is a single
// binary with no shared release pipeline to stamp consistently.
const version = "0.1.0"

// Exit codes (spec §6, frozen contract).
const (
	exitSuccess          = 0
	exitConfigError      = 1
	exitConnectivityFail = 2
	exitStoreFailure     = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("netwalk", flag.ContinueOnError)

	configPath := fs.String("config", "", "path to the INI configuration file")
	seedDevices := fs.String("seed-devices", "", `inline seeds, "NAME:IP[,NAME:IP...]"`)
	username := fs.String("username", "", "device login username")
	password := fs.String("password", "", "device login password (falls back to NETWALK_PASSWORD)")
	enablePassword := fs.String("enable-password", "", "privilege/enable password (falls back to NETWALK_ENABLE_PASSWORD)")
	dryRun := fs.Bool("dry-run", false, "walk the network but do not write to the inventory store")
	showVersion := fs.Bool("version", false, "print the version and exit")
	dbInit := fs.Bool("db-init", false, "create the inventory schema and exit")
	dbStatus := fs.Bool("db-status", false, "check connectivity to the inventory store and exit")

	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}

	if *showVersion {
		fmt.Fprintf(os.Stdout, "netwalk %s\n", version)
		return exitSuccess
	}

	if err := lifecycle.InitializeLogger(nil); err != nil {
		fmt.Fprintf(os.Stderr, "netwalk: logger init: %v\n", err)
		return exitConfigError
	}

	cfg, err := loadConfiguration(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("configuration error")
		return exitConfigError
	}

	ctx := context.Background()

	if *dbInit {
		return runDBInit(ctx, cfg)
	}

	if *dbStatus {
		return runDBStatus(ctx, cfg)
	}

	if *seedDevices == "" {
		logger.Error().Msg("--seed-devices is required unless --version, --db-init, or --db-status is given")
		return exitConfigError
	}

	seeds, err := seedfile.ParseInline(*seedDevices)
	if err != nil {
		logger.Error().Err(err).Msg("invalid --seed-devices")
		return exitConfigError
	}

	if len(seeds) == 0 {
		logger.Error().Msg("--seed-devices named no usable seeds")
		return exitConfigError
	}

	creds, err := resolveCredentials(cfg, *username, *password, *enablePassword)
	if err != nil {
		logger.Error().Err(err).Msg("credential resolution failed")
		return exitConfigError
	}

	store, cleanup, err := openStore(ctx, cfg, *dryRun)
	if err != nil {
		logger.Error().Err(err).Msg("inventory store unavailable")
		return exitStoreFailure
	}
	defer cleanup()

	engine := buildEngine(cfg, store, creds)

	var summary discovery.Summary

	runErr := lifecycle.Run(ctx, func(ctx context.Context) error {
		summary = engine.Run(ctx, seeds)
		return nil
	})
	if runErr != nil {
		logger.Error().Err(runErr).Msg("discovery run aborted")
		return exitStoreFailure
	}

	printSummary(summary)

	if err := (report.NoopWriter{}).Write(ctx, summary); err != nil {
		logger.Error().Err(err).Msg("report writer failed")
	}

	if allSeedsFailed(summary, len(seeds)) {
		return exitConnectivityFail
	}

	return exitSuccess
}

// runDBInit implements --db-init: connect, create the logical schema of
// spec §4.6 if it does not exist, and exit.
func runDBInit(ctx context.Context, cfg config.Config) int {
	if !cfg.Database.Enabled {
		logger.Error().Msg("[database] enabled=false; nothing to initialize")
		return exitStoreFailure
	}

	store, err := inventory.NewPGStore(ctx, databaseDSN(cfg.Database))
	if err != nil {
		logger.Error().Err(err).Msg("db-init: connect failed")
		return exitStoreFailure
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error().Err(err).Msg("db-init: schema creation failed")
		return exitStoreFailure
	}

	logger.Info().Msg("db-init: schema ready")

	return exitSuccess
}

// runDBStatus implements --db-status: verify connectivity to the configured
// store without mutating anything.
func runDBStatus(ctx context.Context, cfg config.Config) int {
	if !cfg.Database.Enabled {
		logger.Warn().Msg("[database] enabled=false")
		return exitSuccess
	}

	store, err := inventory.NewPGStore(ctx, databaseDSN(cfg.Database))
	if err != nil {
		logger.Error().Err(err).Msg("db-status: unreachable")
		return exitStoreFailure
	}
	defer store.Close()

	logger.Info().Msg("db-status: reachable")

	return exitSuccess
}

func loadConfiguration(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// resolveCredentials applies the precedence of spec §4.3/§9: explicit CLI
// flag, then environment, then (when configured) an interactive prompt for
// the enable password only — device login credentials are never prompted
// for interactively, matching the teacher's non-interactive service
// bootstrapping idiom.
func resolveCredentials(cfg config.Config, username, password, enablePassword string) (model.Credentials, error) {
	creds := model.Credentials{
		Username:        username,
		Password:        firstNonEmpty(password, os.Getenv("NETWALK_PASSWORD")),
		EnablePassword:  firstNonEmpty(enablePassword, os.Getenv("NETWALK_ENABLE_PASSWORD")),
		PromptForEnable: cfg.Credentials.PromptForEnablePassword,
	}

	if secret.IsObfuscated(creds.Password) {
		plain, err := secret.Reveal(creds.Password)
		if err != nil {
			return model.Credentials{}, fmt.Errorf("reveal password: %w", err)
		}

		creds.Password = plain
	}

	if creds.EnablePassword == "" && creds.PromptForEnable {
		prompted, err := promptEnablePassword()
		if err != nil {
			return model.Credentials{}, fmt.Errorf("prompt enable password: %w", err)
		}

		creds.EnablePassword = prompted
	}

	return creds, nil
}

func promptEnablePassword() (string, error) {
	fmt.Fprint(os.Stderr, "enable password: ")

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}

// openStore returns the Store to use and a cleanup func. A dry run never
// touches the configured database, per spec's --dry-run contract.
func openStore(ctx context.Context, cfg config.Config, dryRun bool) (inventory.Store, func(), error) {
	if dryRun || !cfg.Database.Enabled {
		store := inventory.NewMockStore()
		return store, func() { store.Close() }, nil
	}

	pgStore, err := inventory.NewPGStore(ctx, databaseDSN(cfg.Database))
	if err != nil {
		return nil, nil, err
	}

	if err := pgStore.EnsureSchema(ctx); err != nil {
		pgStore.Close()
		return nil, nil, err
	}

	return pgStore, pgStore.Close, nil
}

func databaseDSN(db config.DatabaseSection) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User, db.Password, db.Host, strconv.Itoa(db.Port), db.Name, db.SSLMode)
}

func buildEngine(cfg config.Config, store inventory.Store, creds model.Credentials) *discovery.Engine {
	handler := platform.NewHandler()

	transportMgr := &transport.Manager{
		ConnectTimeout: cfg.Discovery.ConnectionTimeout,
		CommandTimeout: cfg.Discovery.ConnectionTimeout,
	}

	devCollector := collector.New(handler, transportMgr, cfg.Discovery.ConnectionTimeout, cfg.VLANCollection.Enabled)

	filterEngine := filter.NewEngine(filter.Config{
		MaxDepth:            cfg.Discovery.MaxDepth,
		ExcludePlatforms:    cfg.Exclusions.ExcludePlatforms,
		ExcludeCapabilities: cfg.Exclusions.ExcludeCapabilities,
		ExcludeHostnames:    cfg.Exclusions.ExcludeHostnames,
		ExcludeCIDRs:        cfg.Exclusions.ExcludeCIDRs,
	})

	engineCfg := discovery.Config{
		MaxDepth:               cfg.Discovery.MaxDepth,
		DiscoveryTimeout:       cfg.Discovery.DiscoveryTimeout,
		ConcurrentDevices:      cfg.Discovery.ConcurrentDevices,
		EnableProgressTracking: cfg.Discovery.EnableProgressTracking,
		ConnectionTimeout:      cfg.Discovery.ConnectionTimeout,
	}

	return discovery.NewEngine(engineCfg, devCollector, store, filterEngine, creds)
}

// allSeedsFailed reports the "connectivity failure for all seeds" exit
// condition of spec §6: every admitted entry failed and nothing beyond the
// seed set was ever queued (no neighbor was reachable from any seed).
func allSeedsFailed(s discovery.Summary, seedCount int) bool {
	return seedCount > 0 && s.Completed == seedCount && s.Failed == seedCount
}

func printSummary(s discovery.Summary) {
	logger.Info().
		Int("queued", s.Queued).
		Int("completed", s.Completed).
		Int("new_devices", s.NewDevices).
		Int("failed", s.Failed).
		Int("boundary", s.Boundary).
		Int("skipped", s.Skipped).
		Int("timeout_resets", s.TimeoutResets).
		Bool("hard_capped", s.HardCapped).
		Dur("elapsed", s.Elapsed.Round(time.Millisecond)).
		Msg("discovery complete")
}
