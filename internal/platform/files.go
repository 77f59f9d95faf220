package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// DefaultDestinationName is the folder downloads land in when the user picks none
const DefaultDestinationName = "downloads"

// writeCheckPattern names the throwaway file used to test directory writability
const writeCheckPattern = ".captube-write-*"

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// runCommand is swapped in tests
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// lookPath is swapped in tests
var lookPath = exec.LookPath

// OpenInFileExplorer shows path in the system file manager. Files are
// highlighted where the platform supports it; directories are opened.
// Callers treat failures as non-fatal.
func OpenInFileExplorer(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	if runtime.GOOS == OSLinux {
		return openInManagerLinux(absPath, info.IsDir())
	}

	name, args, err := explorerCommand(runtime.GOOS, absPath, info.IsDir())
	if err != nil {
		return err
	}
	return runCommand(name, args...)
}

// explorerCommand returns the command that reveals path on goos
func explorerCommand(goos, path string, isDir bool) (string, []string, error) {
	switch goos {
	case OSDarwin:
		if isDir {
			return OpenCommand, []string{path}, nil
		}
		return OpenCommand, []string{MacOSSelectFlag, path}, nil
	case OSWindows:
		if isDir {
			return ExplorerCommand, []string{path}, nil
		}
		return ExplorerCommand, []string{WindowsSelectParam + path}, nil
	case OSLinux:
		// File selection is not standardized on Linux, open the parent directory
		if !isDir {
			path = filepath.Dir(path)
		}
		return XDGOpenCommand, []string{path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// openInManagerLinux tries xdg-open, then the common file managers
func openInManagerLinux(path string, isDir bool) error {
	name, args, _ := explorerCommand(OSLinux, path, isDir)
	if err := runCommand(name, args...); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := lookPath(fm); err == nil {
			return runCommand(fm, args...)
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// EnsureWritableDir creates dirPath when missing and verifies that it is a
// directory the process can create files in.
func EnsureWritableDir(dirPath string) error {
	if strings.TrimSpace(dirPath) == "" {
		return errors.New("directory path is empty")
	}

	if err := os.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
		return fmt.Errorf("create directory %s: %w", dirPath, err)
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("stat directory %s: %w", dirPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dirPath)
	}

	check, err := os.CreateTemp(dirPath, writeCheckPattern)
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dirPath, err)
	}
	name := check.Name()
	_ = check.Close()
	_ = os.Remove(name)

	return nil
}

// DefaultDestination returns the "downloads" folder next to the application's
// working directory.
func DefaultDestination() string {
	abs, err := filepath.Abs(DefaultDestinationName)
	if err != nil {
		return DefaultDestinationName
	}
	return abs
}

// IsWithinDir reports whether path lies inside dir (dir itself excluded)
func IsWithinDir(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	// Compare resolved paths only when both resolve, so a not yet created
	// file is still matched against a symlinked directory consistently.
	resolvedDir, errDir := filepath.EvalSymlinks(absDir)
	resolvedPath, errPath := filepath.EvalSymlinks(absPath)
	if errDir == nil && errPath == nil {
		absDir, absPath = resolvedDir, resolvedPath
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
