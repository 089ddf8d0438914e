// Package deps resolves the external programs the tools shell out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Tool is an external program. Command may be a bare name looked up on PATH
// or a path taken from config.
type Tool struct {
	Name    string
	Command string
	Hint    string
}

// Require resolves every tool and returns the executable paths by name.
// All missing tools are reported together so one run shows what to install.
func Require(tools ...Tool) (map[string]string, error) {
	paths := make(map[string]string, len(tools))
	var result *multierror.Error
	for _, tool := range tools {
		path, err := resolve(tool)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		paths[tool.Name] = path
	}
	return paths, result.ErrorOrNil()
}

func resolve(tool Tool) (string, error) {
	cmd := strings.TrimSpace(tool.Command)
	if cmd == "" {
		return "", fmt.Errorf("%s: command not configured", tool.Name)
	}
	path, err := exec.LookPath(cmd)
	if err != nil {
		if tool.Hint != "" {
			return "", fmt.Errorf("%s: %q not found (%s)", tool.Name, cmd, tool.Hint)
		}
		return "", fmt.Errorf("%s: %q not found", tool.Name, cmd)
	}
	return path, nil
}

// FirstAvailable returns the first command in candidates found on PATH.
func FirstAvailable(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c == "" {
			continue
		}
		if _, err := exec.LookPath(c); err == nil {
			return c, true
		}
	}
	return "", false
}
