package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens saved images in an external viewer
type Launcher struct {
	command string   // configured viewer command, empty for auto-detect
	args    []string // additional arguments for the viewer
	logger  *slog.Logger
}

// launchPath defines a single way to launch a viewer
type launchPath struct {
	path      string   // Command path: "feh", "imv", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command
}

// viewers registry maps a viewer name to its per-platform launch paths
var viewers = map[string]map[string][]launchPath{
	"imv":     {"linux": {{path: "imv"}}},
	"feh":     {"linux": {{path: "feh"}}},
	"eog":     {"linux": {{path: "eog"}}},
	"sxiv":    {"linux": {{path: "sxiv"}}},
	"preview": {"darwin": {{path: "open-a:Preview"}}},
}

// candidateViewers defines the preferred viewer order for each platform
var candidateViewers = map[string][]string{
	"darwin": {"preview"},
	"linux":  {"imv", "feh", "eog", "sxiv"},
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

// tryOpenWithApp attempts to open a file with a specific macOS app using "open -a"
func tryOpenWithApp(appName, path string, openFlags []string) error {
	cmdArgs := make([]string, len(openFlags))
	copy(cmdArgs, openFlags)
	cmdArgs = append(cmdArgs, "-a", appName, path)
	// Run() waits for open to return and reports a missing app
	return exec.Command("open", cmdArgs...).Run()
}

// tryLaunchWithCommand attempts to launch a CLI viewer found in PATH
func tryLaunchWithCommand(command, path string, args []string) error {
	if _, err := exec.LookPath(command); err != nil {
		return err
	}
	cmdArgs := append(append([]string{}, args...), path)
	return exec.Command(command, cmdArgs...).Start()
}

// detectAndLaunch tries candidate viewers in order.
// Returns the viewer name that succeeded.
func detectAndLaunch(path string, logger *slog.Logger) (string, error) {
	candidates, ok := candidateViewers[runtime.GOOS]
	if !ok {
		candidates = candidateViewers["linux"]
	}

	for _, name := range candidates {
		launchPaths, ok := viewers[name][runtime.GOOS]
		if !ok {
			continue
		}
		for _, lp := range launchPaths {
			var err error
			if strings.HasPrefix(lp.path, "open-a:") {
				err = tryOpenWithApp(strings.TrimPrefix(lp.path, "open-a:"), path, lp.openFlags)
			} else {
				err = tryLaunchWithCommand(lp.path, path, nil)
			}
			if err == nil {
				logger.Info("opened with detected viewer", "viewer", name, "path", lp.path)
				return name, nil
			}
			logger.Debug("viewer not available", "viewer", name, "path", lp.path, "error", err)
		}
	}

	return "", fmt.Errorf("no candidate viewers found")
}

// Launch opens a local image file in the configured viewer or system default
func (l *Launcher) Launch(path string) error {
	// Tier 1: User configured a specific viewer
	if l.command != "" {
		l.logger.Info("opening with configured viewer", "command", l.command, "file", path)
		return tryLaunchWithCommand(l.command, path, l.args)
	}

	// Tier 2: Known viewers for this platform
	if _, err := detectAndLaunch(path, l.logger); err == nil {
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate viewers found, using system default")
	return l.launchDefault(path)
}

// launchDefault opens the file using the system default handler
func (l *Launcher) launchDefault(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "file", path)
	return cmd.Start()
}
