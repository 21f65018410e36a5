package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/roulette/internal/config"
	"github.com/evanschultz/roulette/internal/platform"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// stdin is read by the mcp command; tests swap it.
var stdin io.Reader = os.Stdin

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run builds the command tree and executes it through fang.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	env := &cliEnv{stdout: stdout, stderr: stderr, now: time.Now}
	defer env.close()

	root := newRootCommand(env)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root,
		fang.WithVersion(version),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
	)
}

// globalOptions holds flags shared by every command.
type globalOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// cliEnv carries resolved runtime state between the root and its subcommands.
type cliEnv struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	opts       globalOptions
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
}

// newRootCommand builds the roulette command tree.
func newRootCommand(env *cliEnv) *cobra.Command {
	env.opts = defaultGlobalOptions()
	root := &cobra.Command{
		Use:   "roulette",
		Short: "Spin a wheel to hand out tasks",
		Long:  "roulette pairs every member with a task by spinning a wheel of tasks under fixed member pointers.",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.resolvePaths()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), env)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&env.opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&env.opts.appName, "app", env.opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&env.opts.devMode, "dev", env.opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newTUICommand(env),
		newSpinCommand(env),
		newRenderCommand(env),
		newMCPCommand(env),
		newPathsCommand(env),
		newConfigCommand(env),
	)
	return root
}

// defaultGlobalOptions applies ROULETTE_APP_NAME and ROULETTE_DEV_MODE.
func defaultGlobalOptions() globalOptions {
	opts := globalOptions{appName: "roulette", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("ROULETTE_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("ROULETTE_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}
	return opts
}

// resolvePaths resolves platform paths and the config file location.
func (e *cliEnv) resolvePaths() error {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: e.opts.appName,
		DevMode: e.opts.devMode,
	})
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	e.paths = paths

	e.configPath = strings.TrimSpace(e.opts.configPath)
	if e.configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("ROULETTE_CONFIG")); envPath != "" {
			e.configPath = envPath
		} else {
			e.configPath = paths.ConfigPath
		}
	}
	return nil
}

// setup loads config and opens the runtime logger for one command flow.
func (e *cliEnv) setup(command string, console bool) error {
	cfg, err := config.Load(e.configPath, config.Default())
	if err != nil {
		return fmt.Errorf("load config %q: %w", e.configPath, err)
	}
	e.cfg = cfg

	logger, err := newRuntimeLogger(e.stderr, e.opts.appName, e.opts.devMode, e.paths, cfg.Logging, e.now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.SetConsoleEnabled(console)
	e.logger = logger

	logger.Info("startup configuration resolved", "app", e.opts.appName, "dev_mode", e.opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", e.configPath, "data_dir", e.paths.DataDir, "log_dir", e.paths.LogDir)
	logger.Info("configuration loaded", "config_path", e.configPath, "log_level", cfg.Logging.Level, "spin_mode", cfg.Spin.Mode)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return nil
}

// close releases the runtime logger.
func (e *cliEnv) close() {
	if e.logger == nil {
		return
	}
	if err := e.logger.Close(); err != nil && e.logger.shouldLogToSink(e.logger.consoleSink) {
		_, _ = fmt.Fprintf(e.stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// errEmptyRoster is returned by headless spins without members or tasks.
var errEmptyRoster = errors.New("please add at least one member and one task")
