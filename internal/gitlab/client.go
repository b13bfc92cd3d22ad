package gitlab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"glarchive/internal/ext"
	. "glarchive/internal/log"
	"glarchive/internal/pipe"
)

const DefaultPageSize = 100

// DefaultRequestDelay paces consecutive API requests to stay polite towards
// the instance; it also spaces successive project archivals.
const DefaultRequestDelay = 350 * time.Millisecond

const userAgent = "glarchive/1.0"

// APIError is a non-success response from the GitLab API.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitLab API request on %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

/* APIClient manages access to the GitLab REST API. It is at the boundary to
external data and all methods are synchronous; pacing between paginated
requests happens here, pacing between projects is the orchestrator's job. */

type APIClient struct {
	apiBase  string
	token    string
	pageSize int
	pacer    *pipe.Pacer
	client   *http.Client
}

// NewAPIClient builds a client for the instance at baseURL (scheme and host,
// e.g. https://gitlab.example.edu). A zero delay falls back to the default.
func NewAPIClient(token, baseURL string, delay time.Duration) *APIClient {
	return &APIClient{
		apiBase:  trimTrailingSlash(baseURL) + "/api/v4",
		token:    token,
		pageSize: DefaultPageSize,
		pacer:    pipe.NewPacer(ext.DefaultValue(delay, DefaultRequestDelay)),
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Get fetches path, transparently following page cursors. Collection
// responses are concatenated across pages in server order; a non-collection
// first response is returned as-is. Any non-success status fails the whole
// call with an *APIError, without retrying.
func (c *APIClient) Get(path string, params url.Values) (json.RawMessage, error) {
	var items []json.RawMessage
	page := 1
	for {
		c.pacer.Wait()
		body, header, err := c.getPage(path, params, page)
		if err != nil {
			return nil, err
		}

		if !looksLikeCollection(body) {
			return body, nil
		}

		var pageItems []json.RawMessage
		if err := json.Unmarshal(body, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to decode page %d of %s: %w", page, path, err)
		}
		items = append(items, pageItems...)

		next, err := strconv.Atoi(header.Get("X-Next-Page"))
		if err != nil {
			break
		}
		page = next
	}

	if items == nil {
		items = []json.RawMessage{}
	}
	return json.Marshal(items)
}

func (c *APIClient) getPage(path string, params url.Values, page int) (json.RawMessage, http.Header, error) {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(page))

	requestURL := c.apiBase + path + "?" + query.Encode()
	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			Log.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			URL:        c.apiBase + path,
			Body:       string(body),
		}
	}

	return body, resp.Header, nil
}

func looksLikeCollection(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func get[T any](c *APIClient, path string, params url.Values) (T, error) {
	var decoded T
	raw, err := c.Get(path, params)
	if err != nil {
		return decoded, err
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return decoded, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return decoded, nil
}

// FetchProject fetches a single project by numeric id.
func (c *APIClient) FetchProject(projectID int) (*Project, error) {
	return get[*Project](c, fmt.Sprintf("/projects/%d", projectID), nil)
}

// FetchGroup resolves a group by numeric id or URL-encoded path.
func (c *APIClient) FetchGroup(idOrPath string) (*Group, error) {
	return get[*Group](c, "/groups/"+url.PathEscape(idOrPath), nil)
}

// FetchGroupProjects lists all member projects of a group, including the
// projects of its subgroups.
func (c *APIClient) FetchGroupProjects(groupID int) ([]Project, error) {
	params := url.Values{}
	params.Set("include_subgroups", "true")
	params.Set("simple", "true")
	return get[[]Project](c, fmt.Sprintf("/groups/%d/projects", groupID), params)
}
