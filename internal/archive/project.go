package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"glarchive/internal/gitlab"
	"glarchive/internal/gitrepo"
	logger "glarchive/internal/log"
)

// MetadataCollector is the slice of the API client the archiver needs.
type MetadataCollector interface {
	CollectProjectMetadata(projectID int) (*gitlab.ProjectMetadata, error)
}

// RepoMirrorer mirrors one remote repository into a containing directory.
type RepoMirrorer interface {
	Mirror(remoteURL string, containingDir string) (string, error)
}

// Archiver archives a single project into a working directory and a zip
// container under outDir. Failures of mandatory steps are caught here and
// turned into a failed Log; they never propagate to the orchestrator.
type Archiver struct {
	collector MetadataCollector
	mirrorer  RepoMirrorer
	outDir    string
	dryRun    bool
}

func NewArchiver(collector MetadataCollector, mirrorer RepoMirrorer, outDir string, dryRun bool) *Archiver {
	return &Archiver{collector: collector, mirrorer: mirrorer, outDir: outDir, dryRun: dryRun}
}

// ArchiveProject runs the per-project pipeline and always returns a Log,
// with status done or failed.
func (a *Archiver) ArchiveProject(project gitlab.Project) *Log {
	log := &Log{ID: project.ID, Path: project.PathWithNamespace, Status: StatusStarted}
	if err := a.archive(project, log); err != nil {
		log.Status = StatusFailed
		log.Logf("error: %v", err)
		return log
	}
	log.Status = StatusDone
	return log
}

func (a *Archiver) archive(project gitlab.Project, log *Log) error {
	projectDir := filepath.Join(a.outDir, SafeName(project.PathWithNamespace, project.ID))
	if err := os.MkdirAll(projectDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create project directory %s: %w", projectDir, err)
	}

	log.Logf("fetching metadata")
	meta, err := a.collector.CollectProjectMetadata(project.ID)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(projectDir, "metadata.json"), meta); err != nil {
		return err
	}

	log.Logf("cloning mirror repo")
	repoURL := project.RepoURL()
	if repoURL == "" {
		return errors.New("no repo url found")
	}
	if a.dryRun {
		log.Logf("dry-run: would clone %s", repoURL)
	} else {
		mirrorPath, err := a.mirrorer.Mirror(repoURL, projectDir)
		if err != nil {
			return err
		}
		log.Logf("cloned mirror into %s", mirrorPath)
	}

	if project.WikiEnabled {
		a.archiveWiki(repoURL, projectDir, log)
	}

	summary := Summary{
		ID:                project.ID,
		PathWithNamespace: project.PathWithNamespace,
		Name:              project.Name,
		WebURL:            project.WebURL,
		ArchivedAt:        utcTimestamp(),
	}
	if err := writeJSON(filepath.Join(projectDir, "README.archive.json"), summary); err != nil {
		return err
	}

	zipPath := filepath.Join(a.outDir, SafeName(project.PathWithNamespace, project.ID)+".zip")
	if a.dryRun {
		log.Logf("dry-run: would create %s", zipPath)
	} else {
		if err := zipDirectory(projectDir, zipPath); err != nil {
			return err
		}
		log.Logf("created archive %s", zipPath)
	}

	return nil
}

// archiveWiki attempts a wiki mirror. Wikis are commonly enabled but empty
// or absent, so a failure here is a log message, never a project failure.
func (a *Archiver) archiveWiki(repoURL string, projectDir string, log *Log) {
	log.Logf("attempting wiki clone")
	wikiURL := gitrepo.WikiURL(repoURL)
	if a.dryRun {
		log.Logf("dry-run: would clone wiki %s", wikiURL)
		return
	}
	wikiPath, err := a.mirrorer.Mirror(wikiURL, projectDir)
	if err != nil {
		log.Logf("wiki clone failed: %v", err)
		logger.Log.Debugf("Wiki clone failed for %s: %v", wikiURL, err)
		return
	}
	log.Logf("cloned wiki into %s", wikiPath)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
