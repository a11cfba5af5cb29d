package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// ProjectConfigFile sits next to the frame documents it configures.
	ProjectConfigFile = "semframe.yaml"
	// UserConfigDir holds the per-user defaults, relative to $HOME.
	UserConfigDir = ".config/semframe"
	// UserConfigFile is the file name inside UserConfigDir.
	UserConfigFile = "config.yaml"
)

// Loader assembles a Config from built-in defaults, the user config and the
// project config, later layers winning.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader that logs to logger, or to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load layers the user config (~/.config/semframe/config.yaml) and the
// nearest semframe.yaml found walking up from the working directory over the
// defaults.
//
// Relative document globs resolve against the directory holding the project
// config, else the git root, else the working directory.
func (l *Loader) Load() (*Config, error) {
	return l.load(findProjectConfig())
}

// LoadFrom is Load with an explicit project config path in place of the
// upward search. The file must exist.
func (l *Loader) LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("project config: %w", err)
	}
	return l.load(path)
}

func (l *Loader) load(projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing user config is skipped silently, an unreadable one with a
	// warning.
	userPath := userConfigPath()
	switch userCfg, err := LoadFromFile(userPath); {
	case err == nil:
		cfg.Merge(userCfg)
		l.logger.Debug("Merged user config", slog.String("path", userPath))
	case !errors.Is(err, fs.ErrNotExist):
		l.logger.Warn("Ignoring unreadable user config",
			slog.String("path", userPath),
			slog.String("error", err.Error()))
	}

	if projectPath == "" {
		l.logger.Debug("No semframe.yaml found")
	} else if projectCfg, err := LoadFromFile(projectPath); err != nil {
		l.logger.Warn("Ignoring unreadable project config",
			slog.String("path", projectPath),
			slog.String("error", err.Error()))
	} else {
		cfg.Merge(projectCfg)
		if cfg.Documents.Root == "" {
			cfg.Documents.Root = filepath.Dir(projectPath)
		}
		l.logger.Debug("Merged project config", slog.String("path", projectPath))
	}

	if cfg.Documents.Root == "" {
		cfg.Documents.Root = l.defaultDocumentRoot()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultDocumentRoot is the git root, else the working directory.
func (l *Loader) defaultDocumentRoot() string {
	if root := gitRoot(); root != "" {
		l.logger.Debug("Document root from git", slog.String("path", root))
		return root
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	l.logger.Debug("Document root from working directory", slog.String("path", cwd))
	return cwd
}

// EnsureUserConfig writes the defaults to the user config file unless one
// already exists.
func (l *Loader) EnsureUserConfig() error {
	path := userConfigPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Wrote default user config", slog.String("path", path))
	return nil
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig returns the nearest semframe.yaml at or above the
// working directory, or "".
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func gitRoot() string {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
