package platform

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultAppName = "kanbo"

// Paths represents paths data used by this package.
type Paths struct {
	ConfigPath  string
	DataDir     string
	TasksPath   string
	ArchivePath string
}

// Options defines optional settings for configuration.
type Options struct {
	AppName string
	DevMode bool
}

// DefaultPaths returns default paths.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: defaultAppName})
}

// DefaultPathsWithOptions returns default paths with options.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir, err := hostDataDir(configDir)
	if err != nil {
		return Paths{}, err
	}

	env := map[string]string{
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":   os.Getenv("XDG_DATA_HOME"),
		"APPDATA":         os.Getenv("APPDATA"),
		"LOCALAPPDATA":    os.Getenv("LOCALAPPDATA"),
	}
	return PathsFor(runtime.GOOS, env, configDir, dataDir, resolveAppName(opts))
}

// hostDataDir picks the platform data root. os.UserConfigDir doubles as
// the data root everywhere except Linux, where data lives under
// ~/.local/share, and Windows, where roaming config and local data split.
func hostDataDir(configDir string) (string, error) {
	switch runtime.GOOS {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	case "windows":
		if local := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); local != "" {
			return local, nil
		}
	}
	return configDir, nil
}

// resolveAppName applies the dev-mode suffix so development state never
// mixes with the real board.
func resolveAppName(opts Options) string {
	name := cmp.Or(strings.TrimSpace(opts.AppName), defaultAppName)
	if opts.DevMode {
		name += "-dev"
	}
	return name
}

// PathsFor resolves the config and data file locations for the given
// platform. The env map and base dirs are injected so tests can cover
// every GOOS from one host.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	appName = strings.TrimSpace(appName)
	switch {
	case userConfigDir == "" || userDataDir == "":
		return Paths{}, fmt.Errorf("empty base dirs")
	case appName == "":
		return Paths{}, fmt.Errorf("empty app name")
	}

	configBase, dataBase := userConfigDir, userDataDir
	switch goos {
	case "linux":
		configBase = cmp.Or(env["XDG_CONFIG_HOME"], configBase)
		dataBase = cmp.Or(env["XDG_DATA_HOME"], dataBase)
	case "windows":
		configBase = cmp.Or(env["APPDATA"], configBase)
		dataBase = cmp.Or(env["LOCALAPPDATA"], dataBase)
	}
	// darwin and everything else keep the os.UserConfigDir defaults.

	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath:  filepath.Join(configBase, appName, "config.toml"),
		DataDir:     dataDir,
		TasksPath:   filepath.Join(dataDir, "tasks.json"),
		ArchivePath: filepath.Join(dataDir, "archive.db"),
	}, nil
}
