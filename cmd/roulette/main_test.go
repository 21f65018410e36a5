package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/roulette/internal/config"
	"github.com/evanschultz/roulette/internal/domain"
	"github.com/evanschultz/roulette/internal/platform"
	"github.com/evanschultz/roulette/internal/roulette"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("ROULETTE_DEV_MODE", "false")
	_ = os.Unsetenv("ROULETTE_CONFIG")
	_ = os.Unsetenv("ROULETTE_APP_NAME")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// scriptedProgram runs model interactions inside run() tests.
type scriptedProgram struct {
	model tea.Model
	runFn func(tea.Model) (tea.Model, error)
}

// Run runs scripted model interactions and returns the final state.
func (p scriptedProgram) Run() (tea.Model, error) {
	if p.runFn == nil {
		return p.model, nil
	}
	return p.runFn(p.model)
}

// applyModelMsg applies one message and any resulting command chain.
func applyModelMsg(t *testing.T, model tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	updated, cmd := model.Update(msg)
	return applyModelCmd(t, updated, cmd)
}

// applyModelCmd executes one command chain to completion (bounded for safety).
func applyModelCmd(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	out := model
	currentCmd := cmd
	for i := 0; i < 8 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		out = updated
		currentCmd = nextCmd
	}
	return out
}

// writeRosterConfig writes a config seeding a two-by-two roster.
func writeRosterConfig(t *testing.T, path string) {
	t.Helper()
	content := `
[roster]
members = ["Alice", "Bob"]
tasks = ["Cleaning", "Cooking"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// missingConfig returns a config path that does not exist, so defaults apply.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestRunVersion(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"--version"}, &out, io.Discard); err != nil {
		t.Fatalf("run(--version) error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRunStartsProgram(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program { return fakeProgram{} }

	if err := run(context.Background(), []string{"--config", missingConfig(t)}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if err := run(context.Background(), []string{"--config", missingConfig(t), "tui"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(tui) error = %v", err)
	}
}

func TestRunPropagatesProgramError(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	boom := errors.New("terminal gone")
	programFactory = func(_ tea.Model) program { return fakeProgram{runErr: boom} }

	err := run(context.Background(), []string{"--config", missingConfig(t)}, io.Discard, io.Discard)
	if !errors.Is(err, boom) {
		t.Fatalf("expected program error, got %v", err)
	}
}

func TestRunTUISeedsRosterFromConfig(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })

	var rendered string
	programFactory = func(m tea.Model) program {
		return scriptedProgram{
			model: m,
			runFn: func(model tea.Model) (tea.Model, error) {
				model = applyModelCmd(t, model, model.Init())
				model = applyModelMsg(t, model, tea.WindowSizeMsg{Width: 120, Height: 40})
				rendered = fmt.Sprint(model.View().Content)
				return model, nil
			},
		}
	}

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeRosterConfig(t, cfgPath)
	if err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"Alice", "Bob", "Cleaning", "Cooking"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected seeded %q in view, got %q", want, rendered)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"bogus"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestRunSpinFixedAngle(t *testing.T) {
	var out strings.Builder
	args := []string{"--config", missingConfig(t), "spin", "-m", "Alice", "-m", "Bob", "-t", "Cleaning", "-t", "Cooking", "--angle", "720"}
	if err := run(context.Background(), args, &out, io.Discard); err != nil {
		t.Fatalf("run(spin) error = %v", err)
	}
	if got, want := out.String(), "Alice - Cleaning\nBob - Cooking\n"; got != want {
		t.Fatalf("spin output = %q, want %q", got, want)
	}
}

func TestRunSpinJSON(t *testing.T) {
	var out bytes.Buffer
	args := []string{"--config", missingConfig(t), "spin", "-m", "Alice", "-m", "Bob", "-t", "Cleaning", "-t", "Cooking", "--angle", "90", "--format", "json"}
	if err := run(context.Background(), args, &out, io.Discard); err != nil {
		t.Fatalf("run(spin json) error = %v", err)
	}
	var got spinResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode spin json: %v\n%s", err, out.String())
	}
	want := []domain.Assignment{{Member: "Alice", Task: "Cooking"}, {Member: "Bob", Task: "Cleaning"}}
	if len(got.Assignments) != 2 || got.Assignments[0] != want[0] || got.Assignments[1] != want[1] {
		t.Fatalf("assignments = %#v, want %#v", got.Assignments, want)
	}
	if got.Rotation != 90 || got.Mode != roulette.ModeWheel {
		t.Fatalf("unexpected result header %#v", got)
	}
}

func TestRunSpinThroughController(t *testing.T) {
	var out strings.Builder
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeRosterConfig(t, cfgPath)
	start := time.Now()
	args := []string{"--config", cfgPath, "spin", "--delay", "20ms"}
	if err := run(context.Background(), args, &out, io.Discard); err != nil {
		t.Fatalf("run(spin) error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected spin to wait for the delay, took %s", elapsed)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Alice - ") || !strings.HasPrefix(lines[1], "Bob - ") {
		t.Fatalf("unexpected spin output %q", out.String())
	}
}

func TestRunSpinShuffleMode(t *testing.T) {
	var out bytes.Buffer
	args := []string{"--config", missingConfig(t), "spin", "-m", "Alice", "-m", "Bob", "-m", "Cara", "-t", "Dishes", "--delay", "0s", "--mode", "shuffle", "--format", "json"}
	if err := run(context.Background(), args, &out, io.Discard); err != nil {
		t.Fatalf("run(spin shuffle) error = %v", err)
	}
	var got spinResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode spin json: %v", err)
	}
	if got.Mode != roulette.ModeShuffle || len(got.Assignments) != 3 {
		t.Fatalf("unexpected shuffle result %#v", got)
	}
	for _, a := range got.Assignments {
		if a.Task != "Dishes" {
			t.Fatalf("expected the only task for everyone, got %#v", a)
		}
	}
}

func TestRunSpinMarkdown(t *testing.T) {
	var out strings.Builder
	args := []string{"--config", missingConfig(t), "spin", "-m", "Alice", "-t", "Cleaning", "--angle", "0", "--format", "markdown"}
	if err := run(context.Background(), args, &out, io.Discard); err != nil {
		t.Fatalf("run(spin markdown) error = %v", err)
	}
	for _, want := range []string{"Assignments", "Alice", "Cleaning"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in markdown output, got %q", want, out.String())
		}
	}
}

func TestRunSpinErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		is   error
	}{
		{name: "no members", args: []string{"spin", "-t", "Cleaning", "--angle", "0"}, is: errEmptyRoster},
		{name: "no tasks timed", args: []string{"spin", "-m", "Alice", "--delay", "0s"}, is: roulette.ErrNoTasks},
		{name: "bad format", args: []string{"spin", "-m", "Alice", "-t", "Cleaning", "--format", "yaml"}},
		{name: "bad delay", args: []string{"spin", "-m", "Alice", "-t", "Cleaning", "--delay", "soon"}},
		{name: "bad mode", args: []string{"spin", "-m", "Alice", "-t", "Cleaning", "--mode", "dice"}},
		{name: "nan angle", args: []string{"spin", "-m", "Alice", "-t", "Cleaning", "--angle", "NaN"}, is: roulette.ErrInvalidAngle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"--config", missingConfig(t)}, tc.args...)
			err := run(context.Background(), args, io.Discard, io.Discard)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestRunRenderWritesSVG(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out", "wheel.svg")
	args := []string{"--config", missingConfig(t), "render", "-m", "Alice", "-m", "Bob", "-t", "Cleaning", "-t", "Cooking", "-t", "Laundry", "--angle", "45", "--out", outPath}
	if err := run(context.Background(), args, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(render) error = %v", err)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	svg := string(content)
	if !strings.HasPrefix(strings.TrimSpace(svg), "<svg") {
		t.Fatalf("expected svg document, got %q", svg)
	}
	for _, want := range []string{"Laundry", "Alice", "Bob"} {
		if !strings.Contains(svg, want) {
			t.Fatalf("expected %q in svg", want)
		}
	}

	var stdout strings.Builder
	if err := run(context.Background(), []string{"--config", missingConfig(t), "render", "-t", "Solo"}, &stdout, io.Discard); err != nil {
		t.Fatalf("run(render stdout) error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Solo") {
		t.Fatalf("expected svg on stdout, got %q", stdout.String())
	}
}

func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--app", "roulettex", "--dev", "paths"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{"app: roulettex", "dev_mode: true", "config: ", "log_dir: "} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in paths output, got %q", want, output)
		}
	}
	if !strings.Contains(output, "roulettex-dev") {
		t.Fatalf("expected dev suffix in resolved paths, got %q", output)
	}
}

func TestRunConfigEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "env.toml")
	writeRosterConfig(t, cfgPath)
	t.Setenv("ROULETTE_CONFIG", cfgPath)

	var paths strings.Builder
	if err := run(context.Background(), []string{"paths"}, &paths, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	if !strings.Contains(paths.String(), "config: "+cfgPath) {
		t.Fatalf("expected env config path, got %q", paths.String())
	}

	var out strings.Builder
	if err := run(context.Background(), []string{"spin", "--angle", "720"}, &out, io.Discard); err != nil {
		t.Fatalf("run(spin) error = %v", err)
	}
	if got, want := out.String(), "Alice - Cleaning\nBob - Cooking\n"; got != want {
		t.Fatalf("spin output = %q, want %q", got, want)
	}
}

func TestRunConfigInit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "config", "init"}, &out, io.Discard); err != nil {
		t.Fatalf("run(config init) error = %v", err)
	}
	if !strings.Contains(out.String(), cfgPath) {
		t.Fatalf("expected written path in output, got %q", out.String())
	}
	cfg, err := config.Load(cfgPath, config.Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spin.Delay != "3s" || cfg.Spin.MinTurns != 2 {
		t.Fatalf("unexpected written config %#v", cfg.Spin)
	}

	if err := run(context.Background(), []string{"--config", cfgPath, "config", "init"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected existing config to be kept without --force")
	}
	if err := run(context.Background(), []string{"--config", cfgPath, "config", "init", "--force"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(config init --force) error = %v", err)
	}
}

func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "roulette.toml")
	if err := os.WriteFile(cfgPath, []byte("[logging]\nlevel = \"chatty\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	err := run(context.Background(), []string{"--config", cfgPath, "spin", "-m", "A", "-t", "B", "--angle", "0"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging level error, got %v", err)
	}
}

func TestRunTUIModeWritesRuntimeLogsToFileOnly(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program { return fakeProgram{} }

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("APPDATA", filepath.Join(home, "config"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "data"))
	cfgPath := filepath.Join(home, "config.toml")

	var pathsOut bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--config", cfgPath, "paths"}, &pathsOut, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	var logDir string
	for _, line := range strings.Split(pathsOut.String(), "\n") {
		if v, ok := strings.CutPrefix(line, "log_dir: "); ok {
			logDir = v
		}
	}
	if logDir == "" {
		t.Fatalf("expected log_dir in paths output, got %q", pathsOut.String())
	}

	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--config", cfgPath}, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != "" {
		t.Fatalf("expected no runtime stderr output in TUI mode, got %q", got)
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir(%s) error = %v", logDir, err)
	}
	var logPath string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logPath = filepath.Join(logDir, entry.Name())
			break
		}
	}
	if logPath == "" {
		t.Fatalf("expected a .log file in %s", logDir)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "starting tui program loop") {
		t.Fatalf("expected TUI lifecycle entries in the log file, got %q", string(content))
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("ROULETTE_BOOL_TEST", "true")
	got, ok := parseBoolEnv("ROULETTE_BOOL_TEST")
	if !ok || !got {
		t.Fatalf("expected true bool env parse, got value=%t ok=%t", got, ok)
	}

	t.Setenv("ROULETTE_BOOL_TEST", "not-bool")
	if _, ok := parseBoolEnv("ROULETTE_BOOL_TEST"); ok {
		t.Fatal("expected invalid bool env to return ok=false")
	}
}

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]outputFormat{"": formatText, "TEXT": formatText, "json": formatJSON, " markdown ": formatMarkdown}
	for raw, want := range cases {
		got, err := parseOutputFormat(raw)
		if err != nil || got != want {
			t.Fatalf("parseOutputFormat(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := parseOutputFormat("csv"); err == nil {
		t.Fatal("expected csv to be rejected")
	}
}

func TestRuntimeLoggerWritesDevFileUnderLogDir(t *testing.T) {
	paths, err := platform.PathsFor("linux", nil, t.TempDir(), t.TempDir(), "roulette-dev")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	now := func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	logger, err := newRuntimeLogger(io.Discard, "my app", true, paths, config.Default().Logging, now)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	logger.Info("hello")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if want := filepath.Join(paths.LogDir, "my-app-20261018.log"); logger.DevLogPath() != want {
		t.Fatalf("DevLogPath() = %q, want %q", logger.DevLogPath(), want)
	}
	content, err := os.ReadFile(logger.DevLogPath())
	if err != nil || !strings.Contains(string(content), "hello") {
		t.Fatalf("expected dev log entry, got %q err=%v", string(content), err)
	}

	cfg := config.Default().Logging
	cfg.DevFile.Dir = "traces"
	logger, err = newRuntimeLogger(io.Discard, "roulette", true, paths, cfg, now)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	if got := filepath.Dir(logger.DevLogPath()); got != filepath.Join(paths.DataDir, "traces") {
		t.Fatalf("expected relative dir under data dir, got %q", got)
	}

	logger, err = newRuntimeLogger(io.Discard, "roulette", false, paths, config.Default().Logging, now)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	if logger.DevLogPath() != "" {
		t.Fatalf("expected no dev file outside dev mode, got %q", logger.DevLogPath())
	}
}

func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	logger, err := newRuntimeLogger(&console, "roulette", false, platform.Paths{}, config.Default().Logging, func() time.Time {
		return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}

	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Fatalf("expected console log to include before/after, got %q", out)
	}
	if strings.Contains(out, "during") {
		t.Fatalf("expected muted console log to omit 'during', got %q", out)
	}
}
