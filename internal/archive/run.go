package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"

	"glarchive/internal/color"
	"glarchive/internal/ext"
	"glarchive/internal/gitlab"
	"glarchive/internal/gitrepo"
	logger "glarchive/internal/log"
	"glarchive/internal/pipe"
	"glarchive/internal/view"
)

// API is the slice of the GitLab client the orchestrator needs.
type API interface {
	MetadataCollector
	FetchProject(projectID int) (*gitlab.Project, error)
	FetchGroup(idOrPath string) (*gitlab.Group, error)
	FetchGroupProjects(groupID int) ([]gitlab.Project, error)
}

// Run resolves the project set from the request and archives every project
// sequentially, writing index.json to the output directory last. A non-nil
// error means project-set resolution failed; per-project failures are
// contained in the returned index instead.
func Run(request Request, stats *view.RunStats) (*Index, error) {
	api := gitlab.NewAPIClient(request.Token, request.BaseURL, request.Delay)
	mirrorer := gitrepo.NewMirrorer(request.Token)
	return runWith(api, mirrorer, request, stats)
}

func runWith(api API, mirrorer RepoMirrorer, request Request, stats *view.RunStats) (*Index, error) {
	projects, err := resolveProjects(api, request)
	if err != nil {
		return nil, err
	}
	stats.Projects.Add(len(projects))

	if err := os.MkdirAll(request.OutDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", request.OutDir, err)
	}

	archiver := NewArchiver(api, mirrorer, request.OutDir, request.DryRun)
	pacer := pipe.NewPacer(ext.DefaultValue(request.Delay, gitlab.DefaultRequestDelay))

	results := []*Log{}
	for _, project := range projects {
		pacer.Wait()
		logger.Log.Infof("Archiving %s (id=%s)", color.FgCyan(project.PathWithNamespace), color.FgMagenta(strconv.Itoa(project.ID)))
		log := archiveContained(archiver, project)
		switch log.Status {
		case StatusDone:
			stats.Done.Add(1)
		case StatusFailed:
			stats.Failed.Add(1)
		default:
			stats.Exceptions.Add(1)
		}
		results = append(results, log)
	}

	index := &Index{ArchivedAt: utcTimestamp(), Results: results}
	if err := writeJSON(filepath.Join(request.OutDir, "index.json"), index); err != nil {
		return nil, err
	}

	counts := lo.CountBy(results, func(log *Log) bool { return log.Status == StatusDone })
	logger.Log.Infof("Archived %s of %s projects into %s", color.FgGreen(strconv.Itoa(counts)), color.FgMagenta(strconv.Itoa(len(results))), color.FgCyan(request.OutDir))
	return index, nil
}

// archiveContained isolates one project's archival: anything escaping the
// archiver's own error handling becomes an exception-status Log rather than
// aborting the batch.
func archiveContained(archiver *Archiver, project gitlab.Project) (log *Log) {
	defer func() {
		if r := recover(); r != nil {
			log = &Log{
				ID:       project.ID,
				Path:     project.PathWithNamespace,
				Status:   StatusException,
				Messages: []string{fmt.Sprintf("%v", r)},
			}
		}
	}()
	return archiver.ArchiveProject(project)
}

// resolveProjects builds the ordered project set. Explicit ids are fetched
// one by one and a failed fetch only drops that project with a diagnostic.
// Group resolution failures abort the run with a *ResolutionError.
func resolveProjects(api API, request Request) ([]gitlab.Project, error) {
	if len(request.ProjectIDs) > 0 {
		var projects []gitlab.Project
		for _, projectID := range request.ProjectIDs {
			project, err := api.FetchProject(projectID)
			if err != nil {
				logger.Log.Errorf("Failed to fetch project %s: %v", color.FgRed(strconv.Itoa(projectID)), err)
				continue
			}
			projects = append(projects, *project)
		}
		return projects, nil
	}

	groupID := request.GroupID
	if groupID == 0 {
		group, err := api.FetchGroup(request.GroupPath)
		if err != nil {
			return nil, &ResolutionError{Target: "group " + request.GroupPath, Err: err}
		}
		groupID = group.ID
	}

	logger.Log.Infof("Listing projects in group id %s ...", color.FgCyan(strconv.Itoa(groupID)))
	projects, err := api.FetchGroupProjects(groupID)
	if err != nil {
		return nil, &ResolutionError{Target: fmt.Sprintf("projects of group %d", groupID), Err: err}
	}
	logger.Log.Infof("Found %s projects.", color.FgMagenta(strconv.Itoa(len(projects))))
	return projects, nil
}
