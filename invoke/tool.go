package invoke

import (
	"fmt"
	"os/exec"
)

// LookTool resolves the backend binary on PATH and verifies it runs.
// Provisioning the binary (package manager, version pinning) is the
// caller's concern; this only confirms "the binary exists at path P and
// answers help".
func LookTool(program string) (string, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return "", fmt.Errorf("find %s: %w", program, err)
	}
	if err := exec.Command(path, "help").Run(); err != nil {
		return "", fmt.Errorf("check %s help: %w", path, err)
	}
	return path, nil
}
