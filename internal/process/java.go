package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"lofty-launcher/internal/build"
	"lofty-launcher/internal/ioutil"
)

// ErrNoJava is returned when no usable java executable is configured or
// installed in the runtime directory.
var ErrNoJava = errors.New("no java executable found")

// javaSuffixes returns the path suffixes identifying the java binary on goos.
// javaw is preferred on Windows so that no console window opens.
func javaSuffixes(goos string) []string {
	switch goos {
	case "windows":
		return []string{"bin/javaw.exe", "bin/java.exe"}
	case "darwin":
		return []string{"Contents/Home/bin/java", "bin/java"}
	default:
		return []string{"bin/java"}
	}
}

// FindJava returns configured when it points to an existing file, otherwise
// the first java binary found below runtimeDir.
func FindJava(configured, runtimeDir, goos string) (string, error) {
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && !info.IsDir() {
			return configured, nil
		}
		slog.Warn("configured java executable not found, searching runtime directory",
			"configured", configured,
			"runtime", runtimeDir,
		)
	}

	if _, err := os.Stat(runtimeDir); err != nil {
		return "", ErrNoJava
	}

	for _, suffix := range javaSuffixes(goos) {
		bin, err := ioutil.FindExecutable(runtimeDir, []string{suffix})
		if err != nil {
			return "", fmt.Errorf("error searching java runtime: %w", err)
		}
		if bin != "" {
			if goos != "windows" {
				if err := ioutil.MakeExecutable(bin); err != nil {
					return "", err
				}
			}
			return bin, nil
		}
	}

	return "", ErrNoJava
}

// ValidateJava runs the binary with -version to make sure it starts.
func ValidateJava(ctx context.Context, javaBin string) error {
	if !build.TestRunBinaries() {
		slog.Debug("skipping binary test run", "bin", javaBin)
		return nil
	}

	slog.Debug("validating java binary", "bin", javaBin)

	cmd := exec.CommandContext(ctx, javaBin, "-version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("java validation failed with exit code %d: %s", exitErr.ExitCode(), out)
		}
		return fmt.Errorf("failed to start java process: %w", err)
	}

	return nil
}
