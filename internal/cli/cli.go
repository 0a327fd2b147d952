package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/buildinfo"
	"github.com/matzehuels/snapline/pkg/config"
	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/profile"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "snapline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	profileName string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Snapline computes alignment guides, magnetic snapping and spacing hints for layouts",
		Long:         `Snapline is a layout assistance engine. It evaluates drag interactions against a scene, analyzes spacing consistency, and learns from accepted and rejected suggestions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvVar+" or ~/.config/snapline/config.toml)")
	root.PersistentFlags().StringVar(&c.profileName, "profile", "", "learning profile name (default from config)")

	root.AddCommand(c.evaluateCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.distributeCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.learnCommand())
	root.AddCommand(c.reviewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Workspace
// =============================================================================

// loadConfig resolves and loads the configuration file.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, path, err := config.Resolve(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// workspace is an engine bound to a learning profile.
type workspace struct {
	cfg    config.Config
	engine *assist.Engine
	store  profile.Store
	name   string
	logger *log.Logger
}

// openWorkspace loads the configuration, opens the profile store and
// imports the selected profile into a fresh engine.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	name := c.profileName
	if name == "" {
		name = cfg.Server.Profile
	}
	if err := errors.ValidateProfileName(name); err != nil {
		return nil, err
	}

	store, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	ws := &workspace{
		cfg:    cfg,
		engine: assist.New(cfg.Engine(), assist.WithLogger(c.Logger)),
		store:  store,
		name:   name,
		logger: c.Logger,
	}
	found, err := profile.LoadInto(ctx, store, name, ws.engine)
	if err != nil {
		store.Close()
		return nil, err
	}
	c.Logger.Debug("opened profile", "profile", name, "backend", cfg.Store.Backend, "found", found)
	return ws, nil
}

// openStore opens the configured store, showing a spinner while a remote
// backend connects.
func (c *CLI) openStore(ctx context.Context, cfg profile.Config) (profile.Store, error) {
	if cfg.Backend != profile.BackendRedis && cfg.Backend != profile.BackendMongo {
		return profile.Open(ctx, cfg)
	}
	spinner := newSpinnerWithContext(ctx, "Connecting to "+cfg.Backend+"...")
	spinner.Start()
	store, err := profile.Open(ctx, cfg)
	if err != nil {
		spinner.Stop()
		return nil, err
	}
	spinner.StopWithSuccess("Connected to " + cfg.Backend)
	return store, nil
}

// save writes the engine's learning data back to the profile.
func (w *workspace) save(ctx context.Context) error {
	return profile.SaveFrom(ctx, w.store, w.name, w.engine)
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseIDs parses a comma-separated list of component ids.
func parseIDs(s string) ([]geometry.ComponentID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]geometry.ComponentID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil || v == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid component id %q", p)
		}
		ids = append(ids, geometry.ComponentID(v))
	}
	return ids, nil
}

// formatIDs renders ids as "1, 2, 3".
func formatIDs(ids []geometry.ComponentID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

// formatPx renders a pixel value without trailing zeros.
func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// formatPos renders a position as "(x, y)".
func formatPos(p geometry.Position) string {
	return fmt.Sprintf("(%s, %s)", strconv.FormatFloat(p.X, 'f', -1, 64), strconv.FormatFloat(p.Y, 'f', -1, 64))
}
