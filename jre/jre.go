package jre

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nabinked/kcl-bootstrap/common"
)

const defaultExecutable = "java"

// Starter launches a candidate executable and waits for it to exit.
// Pulled out as an interface so that tests probe with a fake instead of
// spawning real processes.
type Starter interface {
	Start(path string, args ...string) error
}

// ProcessStarter is the production Starter. An exit with any status
// counts as a successful start: the probe only asks whether the
// executable can be launched, some runtimes exit non-zero on -version.
type ProcessStarter struct{}

func (ProcessStarter) Start(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	cmd.Wait()
	return nil
}

// Find locates a launchable java executable. An explicit preferred path
// is probed alone and never silently substituted; otherwise the bare
// platform-default name is tried first, then $JAVA_HOME/bin as a
// best-effort fallback. Start failures are swallowed here, the caller
// decides how to react to not-found.
func Find(preferred string, platform common.Platform, starter Starter) (string, bool) {
	if preferred != "" {
		return preferred, probe(preferred, starter)
	}
	for _, candidate := range candidates(platform) {
		if probe(candidate, starter) {
			return candidate, true
		}
	}
	return "", false
}

func candidates(platform common.Platform) []string {
	found := []string{defaultExecutable}
	if home := os.Getenv("JAVA_HOME"); home != "" {
		name := defaultExecutable
		if platform == common.Windows {
			name += ".exe"
		}
		found = append(found, filepath.Join(home, "bin", name))
	}
	return found
}

func probe(path string, starter Starter) bool {
	return starter.Start(path, "-version") == nil
}
