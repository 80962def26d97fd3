package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "sitegen.yaml"

// Global carries process-wide values into subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml" env:"SITEGEN_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Env     string           `short:"e" name:"env" help:"Build environment (production|development); overrides config"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site into the output directory"`
	Serve ServeCmd `cmd:"" help:"Build, serve and rebuild the site on changes"`
	Nav   NavCmd   `cmd:"" help:"Print the navigation tree derived from the content directory"`
	Spec  SpecCmd  `cmd:"" help:"Fetch and print the specification document"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; sets up logging until the config is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv(config.EnvVarLogLevel))
	slog.SetDefault(config.LoggingConfig{Level: level}.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// LoadConfig loads the configuration file, applies --env and reconfigures logging.
// A missing file at the default path yields the default configuration.
func (c *CLI) LoadConfig() (*config.Config, error) {
	var cfg *config.Config
	if _, statErr := os.Stat(c.Config); errors.Is(statErr, fs.ErrNotExist) && c.Config == DefaultConfigPath {
		slog.Debug("No configuration file; using defaults", "path", c.Config)
		cfg = config.Default()
	} else {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.Env != "" {
		env := config.NormalizeEnvironment(c.Env)
		if env == "" {
			return nil, serrors.ValidationFailed("env", "must be production or development")
		}
		cfg.Environment = env
	}

	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, c.Verbose))
	return cfg, nil
}
