package gitlab

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(serverURL string) *APIClient {
	return NewAPIClient("secret", serverURL, time.Millisecond)
}

func TestGetFollowsPageCursors(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/v4/projects/1/issues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("PRIVATE-TOKEN") != "secret" {
			t.Errorf("expected PRIVATE-TOKEN header, got %q", r.Header.Get("PRIVATE-TOKEN"))
		}
		if r.URL.Query().Get("per_page") != "100" {
			t.Errorf("expected per_page=100, got %s", r.URL.Query().Get("per_page"))
		}
		switch r.URL.Query().Get("page") {
		case "1":
			w.Header().Set("X-Next-Page", "2")
			fmt.Fprint(w, `[{"id":1},{"id":2}]`)
		case "2":
			w.Header().Set("X-Next-Page", "3")
			fmt.Fprint(w, `[{"id":3}]`)
		case "3":
			fmt.Fprint(w, `[]`)
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	raw, err := newTestClient(server.URL).Get("/projects/1/issues", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.ID != i+1 {
			t.Errorf("expected item %d to have id %d, got %d", i, i+1, item.ID)
		}
	}
	if requests != 3 {
		t.Errorf("expected 3 requests (2 full pages + 1 empty), got %d", requests)
	}
}

func TestGetReturnsSingleObjectWithoutPagination(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"id":7,"name":"single"}`)
	}))
	defer server.Close()

	raw, err := newTestClient(server.URL).Get("/projects/7", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var object struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if object.ID != 7 || object.Name != "single" {
		t.Errorf("unexpected object %+v", object)
	}
	if requests != 1 {
		t.Errorf("expected a single request, got %d", requests)
	}
}

func TestGetFailsWithAPIErrorOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"404 Project Not Found"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Get("/projects/99", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"message":"404 Project Not Found"}` {
		t.Errorf("unexpected body %q", apiErr.Body)
	}
}

func TestFetchGroupProjectsRequestsSubgroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/groups/42/projects" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("include_subgroups") != "true" {
			t.Errorf("expected include_subgroups=true")
		}
		if r.URL.Query().Get("simple") != "true" {
			t.Errorf("expected simple=true")
		}
		fmt.Fprint(w, `[{"id":1,"path_with_namespace":"acme/a"},{"id":2,"path_with_namespace":"acme/b"}]`)
	}))
	defer server.Close()

	projects, err := newTestClient(server.URL).FetchGroupProjects(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].PathWithNamespace != "acme/a" || projects[1].PathWithNamespace != "acme/b" {
		t.Errorf("unexpected projects %+v", projects)
	}
}

func TestFetchGroupEscapesPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/v4/groups/acme%2Fsub" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		fmt.Fprint(w, `{"id":42,"name":"acme","path":"acme"}`)
	}))
	defer server.Close()

	group, err := newTestClient(server.URL).FetchGroup("acme/sub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.ID != 42 {
		t.Errorf("expected group id 42, got %d", group.ID)
	}
}
