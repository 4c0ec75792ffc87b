package github_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/service/github"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestServer(t *testing.T, handler func(req graphqlRequest) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		gt.NoError(t, err).Required()

		var req graphqlRequest
		gt.NoError(t, json.Unmarshal(body, &req)).Required()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, handler(req))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchMergedPullRequests(t *testing.T) {
	pages := 0
	srv := newTestServer(t, func(req graphqlRequest) string {
		pages++
		gt.String(t, req.Variables["query"].(string)).Contains("repo:acme/shop is:pr is:merged")
		if pages == 1 {
			gt.String(t, req.Query).Contains("files(first: $fileCount)")
			return `{"data":{"search":{"nodes":[
				{"number":12,"title":"Fix cart total","state":"MERGED","url":"https://github.com/acme/shop/pull/12",
				 "mergedAt":"2025-01-15T10:00:00Z","author":{"login":"alice"},
				 "labels":{"nodes":[{"name":"Component:3"}]},
				 "files":{"nodes":[{"path":"cart/total.go"},{"path":"cart/total_test.go"}]}},
				{"number":13,"title":"Old","state":"MERGED","url":"u","mergedAt":"2020-01-01T00:00:00Z",
				 "author":{"login":"bob"},"labels":{"nodes":[]},"files":{"nodes":[]}}
			],"pageInfo":{"hasNextPage":true,"endCursor":"c1"}}}}`
		}
		gt.Value(t, req.Variables["cursor"]).Equal(any("c1"))
		return `{"data":{"search":{"nodes":[
			{"number":14,"title":"Search tweak","state":"MERGED","url":"https://github.com/acme/shop/pull/14",
			 "mergedAt":"2025-02-01T00:00:00Z","author":{"login":"carol"},"labels":{"nodes":[]},
			 "files":{"nodes":[{"path":"search/index.go"}]}}
		],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`
	})

	svc := github.NewWithEndpoint(srv.URL, srv.Client())
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var prs []*github.PullRequest
	for pr, err := range svc.FetchMergedPullRequests(context.Background(), "acme", "shop", since) {
		gt.NoError(t, err).Required()
		prs = append(prs, pr)
	}

	gt.Array(t, prs).Length(2).Required()
	gt.Value(t, prs[0].Number).Equal(12)
	gt.Value(t, prs[0].Files).Equal([]string{"cart/total.go", "cart/total_test.go"})
	gt.Value(t, prs[0].Labels).Equal([]string{"Component:3"})
	gt.Bool(t, prs[0].MergedAt.Equal(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))).True()
	gt.Value(t, prs[1].Number).Equal(14)
	gt.Value(t, pages).Equal(2)
}

func TestFetchIssues(t *testing.T) {
	srv := newTestServer(t, func(req graphqlRequest) string {
		query := req.Variables["query"].(string)
		gt.Bool(t, strings.Contains(query, "is:issue")).True()
		gt.Bool(t, strings.Contains(query, "updated:")).False()
		return `{"data":{"search":{"nodes":[
			{"number":7,"title":"Checkout crashes","state":"CLOSED","url":"https://github.com/acme/shop/issues/7",
			 "createdAt":"2025-01-10T00:00:00Z","author":{"login":"dave"},
			 "labels":{"nodes":[{"name":"bug"},{"name":"Capability:9"}]}},
			{}
		],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`
	})

	svc := github.NewWithEndpoint(srv.URL, srv.Client())

	var issues []*github.Issue
	for issue, err := range svc.FetchIssues(context.Background(), "acme", "shop", time.Time{}) {
		gt.NoError(t, err).Required()
		issues = append(issues, issue)
	}

	gt.Array(t, issues).Length(1).Required()
	gt.Value(t, issues[0].Title).Equal("Checkout crashes")
	gt.Value(t, issues[0].State).Equal("CLOSED")
	gt.Value(t, issues[0].Labels).Equal([]string{"bug", "Capability:9"})
}

func TestFetchIssues_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := github.NewWithEndpoint(srv.URL, srv.Client())
	for issue, err := range svc.FetchIssues(context.Background(), "acme", "shop", time.Time{}) {
		gt.Value(t, issue).Nil()
		gt.Error(t, err)
	}
}
