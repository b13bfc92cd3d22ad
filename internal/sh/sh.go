package sh

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type DirectoryPath string

// CommandError reports a failed external command together with its combined
// stdout/stderr, which is what git puts its diagnostics on.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s: %v\noutput:\n%s", e.Command, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecuteCommand runs an external command in cwd and returns its combined
// output. An empty cwd runs in the current directory.
func ExecuteCommand(cwd DirectoryPath, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = string(cwd)
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return "", &CommandError{
			Command: name + " " + strings.Join(args, " "),
			Output:  output,
			Err:     err,
		}
	}
	return output, nil
}
