package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glarchive/internal/color"
	. "glarchive/internal/log"
	"glarchive/internal/sh"
)

// GitRunner runs a git invocation in dir and returns its combined output.
type GitRunner interface {
	Run(dir sh.DirectoryPath, args ...string) (string, error)
}

type shellGit struct{}

func (shellGit) Run(dir sh.DirectoryPath, args ...string) (string, error) {
	return sh.ExecuteCommand(dir, "git", args...)
}

// Mirrorer creates and refreshes bare mirrors of remote repositories.
type Mirrorer struct {
	git   GitRunner
	token string
}

func NewMirrorer(token string) *Mirrorer {
	return &Mirrorer{git: shellGit{}, token: token}
}

// NewMirrorerWithRunner injects an alternative git runner, used in tests.
func NewMirrorerWithRunner(token string, git GitRunner) *Mirrorer {
	return &Mirrorer{git: git, token: token}
}

// Mirror clones remoteURL as a bare mirror into containingDir and returns
// the mirror path. An existing mirror is updated in place; if the update
// fails it is deleted and cloned fresh. The token only ever reaches git
// through the clone URL and is scrubbed from any surfaced error.
func (m *Mirrorer) Mirror(remoteURL string, containingDir string) (string, error) {
	dest := filepath.Join(containingDir, MirrorDirName(remoteURL))

	if _, err := os.Stat(dest); err == nil {
		Log.Debugf("Mirror %s already exists, fetching updates", color.FgMagenta(dest))
		if _, err := m.git.Run(sh.DirectoryPath(dest), "remote", "update"); err == nil {
			return dest, nil
		} else {
			Log.Debugf("In-place update of %s failed, recloning: %v", color.FgMagenta(dest), m.scrub(err))
			if err := os.RemoveAll(dest); err != nil {
				return "", fmt.Errorf("failed to remove stale mirror %s: %w", dest, err)
			}
		}
	}

	if err := os.MkdirAll(containingDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", containingDir, err)
	}

	cloneURL := InjectToken(remoteURL, m.token)
	if _, err := m.git.Run("", "clone", "--mirror", cloneURL, dest); err != nil {
		return "", m.scrub(err)
	}
	return dest, nil
}

// scrub removes the token from a command error before it can reach a log.
func (m *Mirrorer) scrub(err error) error {
	if m.token == "" {
		return err
	}
	var cmdErr *sh.CommandError
	if errors.As(err, &cmdErr) {
		cmdErr.Command = strings.ReplaceAll(cmdErr.Command, m.token, "****")
		cmdErr.Output = strings.ReplaceAll(cmdErr.Output, m.token, "****")
	}
	return err
}
