package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/term"

	"glarchive/internal/appConfig"
	"glarchive/internal/archive"
	"glarchive/internal/color"
	"glarchive/internal/ext"
	. "glarchive/internal/log"
	"glarchive/internal/view"
	typex "glarchive/type"
)

func main() {
	var verbose = typex.NullableBool{}
	var dryRun = typex.NullableBool{}

	gitlabURL := flag.String("gitlab", "", "GitLab base URL, e.g. https://gitlab.example.edu")
	groupID := flag.Int("group-id", 0, "GitLab group numeric id")
	groupPath := flag.String("group-path", "", "GitLab group path (e.g. billingegroup)")
	token := flag.String("token", "", "GitLab personal access token (or set GITLAB_TOKEN)")
	outDir := flag.String("outdir", "", "Output directory (default ./gitlab_archives)")
	projectIDs := flag.String("project-ids", "", "Comma separated project ids to archive instead of a whole group")
	configPath := flag.String("config", "", "Path to archive.yaml config file")
	flag.Var(&verbose, "verbose", "Print verbose output")
	flag.Var(&dryRun, "dry-run", "Do not clone or write archives; only simulate")
	flag.Parse()

	InitLogger(verbose.Val(false))

	config, err := appConfig.LoadConfig(*configPath)
	if err != nil {
		Log.Fatalf("Failed to load configuration: %v", err)
	}

	request := archive.Request{
		BaseURL:    ext.DefaultValue(*gitlabURL, config.GitLabURL),
		Token:      ext.DefaultValue(*token, config.RetrieveTokenFromEnv()),
		OutDir:     ext.DefaultValue(*outDir, ext.DefaultValue(config.OutDir, "./gitlab_archives")),
		ProjectIDs: parseProjectIDs(*projectIDs),
		GroupID:    ext.DefaultValue(*groupID, config.GroupID),
		GroupPath:  ext.DefaultValue(*groupPath, config.GroupPath),
		DryRun:     dryRun.Val(false),
	}

	if request.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "ERROR: a GitLab base URL is required via -gitlab or the config file")
		os.Exit(2)
	}
	if request.Token == "" {
		fmt.Fprintln(os.Stderr, "ERROR: a GitLab token is required via -token or the "+appConfig.DefaultTokenEnvVar+" env var")
		os.Exit(2)
	}
	if len(request.ProjectIDs) == 0 && request.GroupID == 0 && request.GroupPath == "" {
		fmt.Fprintln(os.Stderr, "ERROR: select projects via -group-id, -group-path or -project-ids")
		os.Exit(2)
	}

	stats := view.NewRunStats()
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	ctx, stopRenderLoop := context.WithCancel(context.Background())
	renderDone := make(chan struct{})
	if isTTY {
		go func() {
			stats.StartTTYRenderLoop(ctx, os.Stdout)
			close(renderDone)
		}()
	}

	index, err := archive.Run(request, stats)

	stopRenderLoop()
	if isTTY {
		<-renderDone
	}

	if err != nil {
		var resolutionErr *archive.ResolutionError
		if errors.As(err, &resolutionErr) {
			Log.Errorf("%v", resolutionErr)
			os.Exit(3)
		}
		Log.Fatalf("Archive run failed: %v", err)
	}

	if !isTTY {
		stats.RenderFinal(os.Stdout)
	}

	savedTo := request.OutDir
	if abs, err := filepath.Abs(savedTo); err == nil {
		savedTo = ext.ReplaceHomeDirWithTilde(abs)
	}
	fmt.Printf("Done. %d results. Archives and index saved in %s\n", len(index.Results), color.FgCyan(savedTo))
}

// parseProjectIDs parses the comma separated -project-ids value, dropping
// anything that is not a positive integer with a diagnostic.
func parseProjectIDs(raw string) []int {
	if raw == "" {
		return nil
	}
	return lo.FilterMap(strings.Split(raw, ","), func(part string, _ int) (int, bool) {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			Log.Errorf("Ignoring invalid project id %s", color.FgRed(part))
			return 0, false
		}
		return id, true
	})
}
