package gitlab

// Group is a GitLab group, possibly containing subgroups.
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Project is the slice of a GitLab project the archiver needs. Listing
// endpoints are queried with simple=true, so only these fields are reliable.
type Project struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
	HTTPURLToRepo     string `json:"http_url_to_repo"`
	SSHURLToRepo      string `json:"ssh_url_to_repo"`
	WikiEnabled       bool   `json:"wiki_enabled"`
	Archived          bool   `json:"archived"`
}

// RepoURL returns the URL to mirror from, preferring HTTP over SSH. The
// empty string means the project exposes no usable repository URL.
func (p Project) RepoURL() string {
	if p.HTTPURLToRepo != "" {
		return p.HTTPURLToRepo
	}
	return p.SSHURLToRepo
}
