package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// defaultAppName is used when no app name is configured.
const defaultAppName = "roulette"

// Paths holds the per-user locations the app reads and writes. Rosters live
// in memory, so there is no database path.
type Paths struct {
	ConfigPath string
	DataDir    string
	LogDir     string
}

// Options selects which app directory Paths resolves to.
type Options struct {
	AppName string
	DevMode bool
}

// dirName returns the app directory name, suffixed with -dev in dev mode.
func (o Options) dirName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = defaultAppName
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// baseOverrides lists, per OS, the env vars that replace the config and data roots.
var baseOverrides = map[string][2]string{
	"linux":   {"XDG_CONFIG_HOME", "XDG_DATA_HOME"},
	"windows": {"APPDATA", "LOCALAPPDATA"},
}

// DefaultPaths returns paths for the default app name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths for the running OS and user.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configRoot, dataRoot, err := userRoots(runtime.GOOS)
	if err != nil {
		return Paths{}, err
	}
	env := map[string]string{}
	for _, name := range baseOverrides[runtime.GOOS] {
		env[name] = os.Getenv(name)
	}
	return PathsFor(runtime.GOOS, env, configRoot, dataRoot, opts.dirName())
}

// userRoots returns the per-user config and data roots before env overrides.
// Linux keeps data under ~/.local/share; other platforms share the config root.
func userRoots(goos string) (string, string, error) {
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("user config dir: %w", err)
	}
	if goos != "linux" {
		return configRoot, configRoot, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("user home dir: %w", err)
	}
	return configRoot, filepath.Join(home, ".local", "share"), nil
}

// PathsFor resolves paths for goos from explicit roots. Env overrides only
// apply on platforms listed in baseOverrides.
func PathsFor(goos string, env map[string]string, configRoot, dataRoot, appDir string) (Paths, error) {
	if configRoot == "" || dataRoot == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}
	appDir = strings.TrimSpace(appDir)
	if appDir == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}
	if names, ok := baseOverrides[goos]; ok {
		if v := env[names[0]]; v != "" {
			configRoot = v
		}
		if v := env[names[1]]; v != "" {
			dataRoot = v
		}
	}

	dataDir := filepath.Join(dataRoot, appDir)
	return Paths{
		ConfigPath: filepath.Join(configRoot, appDir, "config.toml"),
		DataDir:    dataDir,
		LogDir:     filepath.Join(dataDir, "log"),
	}, nil
}

// ResolveLogDir maps a configured log dir onto p. Blank means LogDir and a
// relative dir is taken from DataDir.
func (p Paths) ResolveLogDir(dir string) string {
	dir = strings.TrimSpace(dir)
	switch {
	case dir == "":
		return p.LogDir
	case filepath.IsAbs(dir):
		return filepath.Clean(dir)
	default:
		return filepath.Join(p.DataDir, dir)
	}
}

// LogFile returns the daily log file for appName inside ResolveLogDir(dir).
func (p Paths) LogFile(dir, appName string, day time.Time) string {
	name := fmt.Sprintf("%s-%s.log", logFileStem(appName), day.Format("20060102"))
	return filepath.Join(p.ResolveLogDir(dir), name)
}

// logFileStem turns an app name into a single safe file-name segment.
func logFileStem(appName string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return defaultAppName
	}
	return stem
}
