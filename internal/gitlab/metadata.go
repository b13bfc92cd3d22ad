package gitlab

import (
	"encoding/json"
	"fmt"
	"net/url"

	"glarchive/internal/color"
	. "glarchive/internal/log"
)

// ProjectMetadata is the per-project snapshot written to metadata.json.
// Field order matters: it is the key order of the serialized document.
// Pipelines is nil (serialized as null) when the API refuses access.
type ProjectMetadata struct {
	Project       json.RawMessage `json:"project"`
	Issues        json.RawMessage `json:"issues"`
	MergeRequests json.RawMessage `json:"merge_requests"`
	Labels        json.RawMessage `json:"labels"`
	Milestones    json.RawMessage `json:"milestones"`
	Releases      json.RawMessage `json:"releases"`
	Tags          json.RawMessage `json:"tags"`
	Pipelines     json.RawMessage `json:"pipelines"`
}

// CollectProjectMetadata gathers the fixed set of per-project resources.
// Issues and merge requests are fetched with scope=all, so closed ones are
// included. Pipeline history is optional: a failure there is logged and
// recorded as absent. Every other failure aborts the collection.
func (c *APIClient) CollectProjectMetadata(projectID int) (*ProjectMetadata, error) {
	base := fmt.Sprintf("/projects/%d", projectID)
	allStates := url.Values{}
	allStates.Set("scope", "all")

	meta := &ProjectMetadata{}
	var err error
	if meta.Project, err = c.Get(base, nil); err != nil {
		return nil, fmt.Errorf("failed to fetch project %d: %w", projectID, err)
	}
	if meta.Issues, err = c.Get(base+"/issues", allStates); err != nil {
		return nil, fmt.Errorf("failed to fetch issues for project %d: %w", projectID, err)
	}
	if meta.MergeRequests, err = c.Get(base+"/merge_requests", allStates); err != nil {
		return nil, fmt.Errorf("failed to fetch merge requests for project %d: %w", projectID, err)
	}
	if meta.Labels, err = c.Get(base+"/labels", nil); err != nil {
		return nil, fmt.Errorf("failed to fetch labels for project %d: %w", projectID, err)
	}
	if meta.Milestones, err = c.Get(base+"/milestones", nil); err != nil {
		return nil, fmt.Errorf("failed to fetch milestones for project %d: %w", projectID, err)
	}
	if meta.Releases, err = c.Get(base+"/releases", nil); err != nil {
		return nil, fmt.Errorf("failed to fetch releases for project %d: %w", projectID, err)
	}
	if meta.Tags, err = c.Get(base+"/repository/tags", nil); err != nil {
		return nil, fmt.Errorf("failed to fetch tags for project %d: %w", projectID, err)
	}

	if meta.Pipelines, err = c.Get(base+"/pipelines", nil); err != nil {
		Log.Debugf("Pipelines unavailable for project %s, recording as absent: %v", color.FgCyan(fmt.Sprintf("%d", projectID)), err)
		meta.Pipelines = nil
	}

	return meta, nil
}
