package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, base string) *Client {
	t.Helper()
	c := NewClient("test-token")
	c.APIBase = base
	return c
}

func TestListOrgReposPaginatesViaLinkHeader(t *testing.T) {
	page1 := []RepoInfo{{ID: 1, Name: "one", FullName: "acme/one"}}
	page2 := []RepoInfo{{ID: 2, Name: "two", FullName: "acme/two"}}

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode(page2)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/acme/repos?page=2>; rel="next"`, server.URL))
		json.NewEncoder(w).Encode(page1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	repos, err := client.ListOrgRepos(context.Background(), "acme", true)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "acme/one", repos[0].FullName)
	assert.Equal(t, "acme/two", repos[1].FullName)
}

func TestListOrgReposFiltersPrivateByDefault(t *testing.T) {
	repos := []RepoInfo{
		{ID: 1, FullName: "acme/public", Private: false},
		{ID: 2, FullName: "acme/secret", Private: true},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(repos)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	out, err := client.ListOrgRepos(context.Background(), "acme", false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "acme/public", out[0].FullName)
}

func TestRequestJSONRetriesOnServerErrorThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]RepoInfo{{ID: 1, FullName: "acme/one"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	repos, err := client.ListOrgRepos(context.Background(), "acme", true)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 2, attempts)
}

func TestRequestJSONForbiddenDoesNotRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ListOrgRepos(context.Background(), "acme", true)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestRequestJSONOtherClientErrorDoesNotRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ListOrgRepos(context.Background(), "acme", true)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestParseLinkHeader(t *testing.T) {
	header := `<https://api.github.com/resource?page=2>; rel="next", <https://api.github.com/resource?page=5>; rel="last"`
	links := parseLinkHeader(header)
	assert.Equal(t, "https://api.github.com/resource?page=2", links["next"])
	assert.Equal(t, "https://api.github.com/resource?page=5", links["last"])
}
