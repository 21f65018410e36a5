package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/roulette/internal/adapters/mcpapi"
	"github.com/evanschultz/roulette/internal/adapters/storage/sqlite"
	"github.com/evanschultz/roulette/internal/app"
	"github.com/evanschultz/roulette/internal/config"
	"github.com/evanschultz/roulette/internal/domain"
	"github.com/evanschultz/roulette/internal/roulette"
	"github.com/evanschultz/roulette/internal/tui"
	"github.com/evanschultz/roulette/internal/wheel"
	"github.com/spf13/cobra"
)

// outputFormat selects how headless spin results are printed.
type outputFormat string

// Supported spin output formats.
const (
	formatText     outputFormat = "text"
	formatJSON     outputFormat = "json"
	formatMarkdown outputFormat = "markdown"
)

// spinResult is the printable outcome of one headless spin.
type spinResult struct {
	Mode        roulette.Mode       `json:"mode"`
	Rotation    float64             `json:"rotation"`
	Members     []string            `json:"members"`
	Tasks       []string            `json:"tasks"`
	Assignments []domain.Assignment `json:"assignments"`
}

// rosterFlags holds the repeatable --member/--task flags.
type rosterFlags struct {
	members []string
	tasks   []string
}

// bind registers the roster flags on cmd.
func (r *rosterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&r.members, "member", "m", nil, "member name (repeatable, defaults to roster.members)")
	cmd.Flags().StringArrayVarP(&r.tasks, "task", "t", nil, "task name (repeatable, defaults to roster.tasks)")
}

// resolve falls back to the configured seed roster for any list left empty.
func (r rosterFlags) resolve(cfg config.Config) ([]domain.Entity, []domain.Entity) {
	members, tasks := r.members, r.tasks
	if len(members) == 0 {
		members = cfg.Roster.Members
	}
	if len(tasks) == 0 {
		tasks = cfg.Roster.Tasks
	}
	return domain.EntitiesFromNames(domain.KindMember, members), domain.EntitiesFromNames(domain.KindTask, tasks)
}

// newTUICommand builds the explicit `tui` command.
func newTUICommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive roulette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), env)
		},
	}
}

// runTUI seeds a fresh session store and runs the bubbletea program.
func runTUI(ctx context.Context, env *cliEnv) error {
	if err := env.setup("tui", false); err != nil {
		return err
	}
	logger := env.logger
	cfg := env.cfg

	sessionCfg, err := sessionConfig(cfg, "")
	if err != nil {
		return err
	}

	repo, err := sqlite.OpenSession()
	if err != nil {
		logger.Error("session store open failed", "err", err)
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("session store close failed", "name", repo.Name(), "err", closeErr)
		}
	}()
	logger.Info("session store ready", "name", repo.Name())

	svc := app.NewService(repo, nil)
	if err := svc.Seed(ctx, cfg.Roster.Members, cfg.Roster.Tasks); err != nil {
		logger.Error("roster seed failed", "err", err)
		return fmt.Errorf("seed roster: %w", err)
	}
	logger.Debug("roster seeded", "members", len(cfg.Roster.Members), "tasks", len(cfg.Roster.Tasks))

	m := tui.NewModel(
		svc,
		tui.WithSessionConfig(sessionCfg),
		tui.WithSpinDelay(cfg.SpinDelay()),
		tui.WithFrameInterval(cfg.FrameInterval()),
		tui.WithWheelOptions(wheelOptions(cfg)),
		tui.WithKeyConfig(tui.KeyConfig{
			Spin:  cfg.Keys.Spin,
			Reset: cfg.Keys.Reset,
			Copy:  cfg.Keys.Copy,
		}),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// newSpinCommand builds the headless `spin` command.
func newSpinCommand(env *cliEnv) *cobra.Command {
	var (
		roster rosterFlags
		angle  float64
		delay  string
		format string
		mode   string
	)
	cmd := &cobra.Command{
		Use:   "spin",
		Short: "Spin once and print the assignments",
		Example: strings.Join([]string{
			"  roulette spin -m Alice -m Bob -t Cleaning -t Cooking",
			"  roulette spin -m Alice -t Dishes --angle 90 --format json",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.setup("spin", true); err != nil {
				return err
			}
			members, tasks := roster.resolve(env.cfg)
			return runSpin(cmd.Context(), env, spinRequest{
				members:  members,
				tasks:    tasks,
				angle:    angle,
				angleSet: cmd.Flags().Changed("angle"),
				delay:    delay,
				format:   format,
				mode:     mode,
			})
		},
	}
	roster.bind(cmd)
	cmd.Flags().Float64Var(&angle, "angle", 0, "fixed wheel rotation in degrees (skips the random draw and the delay)")
	cmd.Flags().StringVar(&delay, "delay", "", "spin duration, e.g. 3s (defaults to spin.delay)")
	cmd.Flags().StringVar(&format, "format", string(formatText), "output format: text, json or markdown")
	cmd.Flags().StringVar(&mode, "mode", "", "assignment mode: wheel or shuffle (defaults to spin.mode)")
	return cmd
}

// spinRequest carries parsed `spin` flags.
type spinRequest struct {
	members  []domain.Entity
	tasks    []domain.Entity
	angle    float64
	angleSet bool
	delay    string
	format   string
	mode     string
}

// runSpin runs one spin through the timer controller, or directly at a fixed angle.
func runSpin(ctx context.Context, env *cliEnv, req spinRequest) error {
	logger := env.logger
	format, err := parseOutputFormat(req.format)
	if err != nil {
		return err
	}
	sessionCfg, err := sessionConfig(env.cfg, req.mode)
	if err != nil {
		return err
	}
	mode := modeOf(sessionCfg.Strategy)

	result := spinResult{
		Mode:    mode,
		Members: domain.Names(req.members),
		Tasks:   domain.Names(req.tasks),
	}
	if req.angleSet {
		if err := roulette.CheckAngle(req.angle); err != nil {
			return fmt.Errorf("invalid --angle: %w", err)
		}
		assignments, err := sessionCfg.Strategy.Assign(req.members, req.tasks, req.angle)
		if err != nil {
			return spinError(err)
		}
		result.Rotation = req.angle
		result.Assignments = assignments
		logger.Info("fixed-angle spin complete", "rotation", req.angle, "assignments", len(assignments))
		return writeSpinResult(env.stdout, format, result)
	}

	delay, err := spinDelay(env.cfg, req.delay)
	if err != nil {
		return err
	}
	ctrl := app.NewController(app.NewSession(sessionCfg), app.ControllerConfig{
		Delay: delay,
		Draw:  rand.Float64,
		OnSettled: func(s app.Session, err error) {
			if err != nil {
				logger.Warn("spin settled with error", "err", err)
				return
			}
			logger.Debug("spin settled", "rotation", s.Rotation(), "assignments", len(s.Assignments()))
		},
	})
	defer ctrl.Close()
	ctrl.SetRoster(req.members, req.tasks)

	spinID, err := ctrl.Spin()
	if err != nil {
		return spinError(err)
	}
	logger.Info("spin started", "spin_id", spinID, "rotation", ctrl.Session().Rotation(), "delay", delay)

	final, err := ctrl.Wait(ctx)
	if err != nil {
		logger.Error("spin did not settle", "spin_id", spinID, "err", err)
		return spinError(err)
	}
	result.Rotation = final.Rotation()
	result.Assignments = final.Assignments()
	logger.Info("spin complete", "spin_id", spinID, "assignments", len(result.Assignments))
	return writeSpinResult(env.stdout, format, result)
}

// spinError maps empty-roster failures onto the user-facing notice.
func spinError(err error) error {
	if errors.Is(err, roulette.ErrNoMembers) || errors.Is(err, roulette.ErrNoTasks) {
		return fmt.Errorf("%w: %w", errEmptyRoster, err)
	}
	return fmt.Errorf("spin: %w", err)
}

// spinDelay resolves the --delay override against spin.delay.
func spinDelay(cfg config.Config, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cfg.SpinDelay(), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --delay %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid --delay %q: must be >= 0", raw)
	}
	return d, nil
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(raw string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown --format %q (want text, json or markdown)", raw)
	}
}

// writeSpinResult prints result in the requested format.
func writeSpinResult(w io.Writer, format outputFormat, result spinResult) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode spin result json: %w", err)
		}
		return nil
	case formatMarkdown:
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("notty"),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		rendered, err := renderer.Render(domain.AssignmentsMarkdown(result.Assignments))
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(w, rendered)
		return err
	default:
		_, err := fmt.Fprintln(w, domain.FormatAssignments(result.Assignments))
		return err
	}
}

// newRenderCommand builds the `render` SVG export command.
func newRenderCommand(env *cliEnv) *cobra.Command {
	var (
		roster  rosterFlags
		angle   float64
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export the wheel and pointers as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.setup("render", true); err != nil {
				return err
			}
			if err := roulette.CheckAngle(angle); err != nil {
				return fmt.Errorf("invalid --angle: %w", err)
			}
			members, tasks := roster.resolve(env.cfg)
			scene := wheel.Build(domain.Names(tasks), domain.Names(members), angle, wheelOptions(env.cfg))
			if err := writeSVG(env.stdout, outPath, scene); err != nil {
				env.logger.Error("svg export failed", "out", outPath, "err", err)
				return err
			}
			env.logger.Info("svg export complete", "out", outPath, "wedges", len(scene.Wedges), "pointers", len(scene.Pointers))
			return nil
		},
	}
	roster.bind(cmd)
	cmd.Flags().Float64Var(&angle, "angle", 0, "wheel rotation in degrees")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file path ('-' for stdout)")
	return cmd
}

// writeSVG writes scene to stdout or to outPath.
func writeSVG(stdout io.Writer, outPath string, scene wheel.Scene) error {
	if outPath == "" || outPath == "-" {
		return wheel.WriteSVG(stdout, scene)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create svg output dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create svg file: %w", err)
	}
	if err := wheel.WriteSVG(f, scene); err != nil {
		_ = f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close svg file: %w", err)
	}
	return nil
}

// newMCPCommand builds the stdio MCP server command.
func newMCPCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve roulette tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.setup("mcp", true); err != nil {
				return err
			}
			mode, err := roulette.ParseMode(string(env.cfg.Spin.Mode))
			if err != nil {
				return err
			}
			srv := mcpapi.NewServer(mcpapi.Config{
				ServerName:    env.opts.appName,
				ServerVersion: version,
				MinTurns:      env.cfg.Spin.MinTurns,
				Mode:          mode,
				Wheel:         wheelOptions(env.cfg),
			})
			env.logger.Info("mcp stdio server listening", "mode", mode)
			if err := srv.Listen(cmd.Context(), stdin, env.stdout); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				env.logger.Error("mcp server stopped", "err", err)
				return fmt.Errorf("serve mcp: %w", err)
			}
			env.logger.Info("command flow complete", "command", "mcp")
			return nil
		},
	}
}

// newPathsCommand builds the `paths` command.
func newPathsCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := env.stdout
			_, _ = fmt.Fprintf(w, "app: %s\n", env.opts.appName)
			_, _ = fmt.Fprintf(w, "dev_mode: %t\n", env.opts.devMode)
			_, _ = fmt.Fprintf(w, "config: %s\n", env.configPath)
			_, _ = fmt.Fprintf(w, "data_dir: %s\n", env.paths.DataDir)
			_, _ = fmt.Fprintf(w, "log_dir: %s\n", env.paths.LogDir)
			return nil
		},
	}
}

// newConfigCommand builds the `config` command group.
func newConfigCommand(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteDefault(env.configPath, config.Default(), force); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
			_, _ = fmt.Fprintf(env.stdout, "wrote %s\n", env.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}

// sessionConfig maps spin settings to session configuration. A non-empty
// modeOverride replaces spin.mode.
func sessionConfig(cfg config.Config, modeOverride string) (app.SessionConfig, error) {
	raw := string(cfg.Spin.Mode)
	if strings.TrimSpace(modeOverride) != "" {
		raw = modeOverride
	}
	mode, err := roulette.ParseMode(raw)
	if err != nil {
		return app.SessionConfig{}, err
	}
	return app.SessionConfig{
		MinTurns: cfg.Spin.MinTurns,
		Strategy: roulette.StrategyFor(mode, nil),
	}, nil
}

// modeOf reports the mode a strategy implements.
func modeOf(s roulette.Strategy) roulette.Mode {
	if _, ok := s.(roulette.Shuffle); ok {
		return roulette.ModeShuffle
	}
	return roulette.ModeWheel
}

// wheelOptions maps wheel settings to renderer options.
func wheelOptions(cfg config.Config) wheel.Options {
	return wheel.Options{
		Size:       cfg.Wheel.Size,
		Saturation: cfg.Wheel.Saturation,
		Lightness:  cfg.Wheel.Lightness,
	}
}
