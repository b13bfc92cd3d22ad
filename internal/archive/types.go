package archive

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the terminal state of a per-project archive attempt. Failed
// covers anticipated errors handled at the archiver boundary; Exception
// covers anything that escaped it.
type Status string

const (
	StatusStarted   Status = "started"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusException Status = "exception"
)

// Log is the record of one project's archival: terminal status plus the
// ordered progress messages, kept for post-hoc diagnosis.
type Log struct {
	ID       int      `json:"id"`
	Path     string   `json:"path"`
	Status   Status   `json:"status"`
	Messages []string `json:"messages"`
}

func (l *Log) Logf(format string, args ...any) {
	l.Messages = append(l.Messages, fmt.Sprintf(format, args...))
}

// Index is the run-level output written once to index.json.
type Index struct {
	ArchivedAt string `json:"archived_at"`
	Results    []*Log `json:"results"`
}

// Summary is the small README.archive.json document written per project.
type Summary struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	Name              string `json:"name"`
	WebURL            string `json:"web_url"`
	ArchivedAt        string `json:"archived_at"`
}

// Request configures one archive run. Either ProjectIDs or a group (numeric
// GroupID, or GroupPath to look it up) selects the project set.
type Request struct {
	BaseURL    string
	Token      string
	OutDir     string
	ProjectIDs []int
	GroupID    int
	GroupPath  string
	DryRun     bool
	Delay      time.Duration
}

// ResolutionError is a failed group or project lookup during project-set
// resolution. It excludes the target from the run instead of producing a Log.
type ResolutionError struct {
	Target string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", e.Target, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// SafeName turns a namespaced project path into a filesystem-safe directory
// name. The numeric id keeps names unique across path collisions.
func SafeName(pathWithNamespace string, projectID int) string {
	return strings.ReplaceAll(pathWithNamespace, "/", "__") + "-" + strconv.Itoa(projectID)
}

func utcTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
