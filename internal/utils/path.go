package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the per user config and data directories.
const AppName = "keyserve"

// PathResolver finds dictionaries and config files relative to the running binary,
// the working directory and the user's config directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a resolver anchored at the current executable.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     userConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

func userConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	}
	return filepath.Join(homeDir, ".config", AppName)
}

// ConfigDir returns the per user config directory.
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// WritableConfigDir returns the first directory config.toml can be written to:
// the per user config dir, Application Support on macOS, then the directory of
// the executable. Missing directories are created on the way.
func (pr *PathResolver) WritableConfigDir() (string, error) {
	candidates := []string{pr.configDir}
	if runtime.GOOS == "darwin" {
		candidates = append(candidates, filepath.Join(pr.homeDir, "Library", "Application Support", AppName))
	}
	candidates = append(candidates, pr.executableDir)
	for _, dir := range candidates {
		if dirWritable(dir) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no writable config directory in %d locations: %w", len(candidates), os.ErrPermission)
}

// ResolveDictPath returns the first existing candidate for a dictionary path:
// the path itself when absolute, then relative to the executable, the working
// directory, and the data directories next to the binary and in the config dir.
func (pr *PathResolver) ResolveDictPath(path string) (string, error) {
	candidates := pr.dictCandidates(path)
	for _, c := range candidates {
		if FileExists(c) {
			log.Debugf("Found dictionary at: %s", c)
			return c, nil
		}
		log.Debugf("Dictionary candidate missing: %s", c)
	}
	return "", fmt.Errorf("dictionary %q not found in %d locations: %w", path, len(candidates), os.ErrNotExist)
}

func (pr *PathResolver) dictCandidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	candidates := []string{filepath.Join(pr.executableDir, path)}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	base := filepath.Base(path)
	return append(candidates,
		filepath.Join(pr.executableDir, "data", base),
		filepath.Join(filepath.Dir(pr.executableDir), "data", base),
		filepath.Join(pr.configDir, "data", base),
	)
}
