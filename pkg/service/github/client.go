package github

import (
	"context"
	"iter"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shurcooL/githubv4"
)

const (
	searchPageSize = 50
	maxLabels      = 20
	maxFiles       = 100
)

type client struct {
	gql *githubv4.Client
}

// New authenticates as a GitHub App installation. privateKey is either the
// PEM itself or a path to a PEM file.
func New(appID, installationID int64, privateKey string) (Service, error) {
	key := []byte(privateKey)
	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport", goerr.V("app_id", appID))
	}

	return &client{gql: githubv4.NewClient(&http.Client{Transport: tr})}, nil
}

// NewWithEndpoint talks to the GraphQL endpoint of a GitHub Enterprise
// server, or a test server, with a preconfigured HTTP client.
func NewWithEndpoint(endpoint string, httpClient *http.Client) Service {
	return &client{gql: githubv4.NewEnterpriseClient(endpoint, httpClient)}
}

type labelConnection struct {
	Nodes []struct {
		Name githubv4.String
	}
}

func (l labelConnection) names() []string {
	names := make([]string, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		names = append(names, string(n.Name))
	}
	return names
}

type issueNode struct {
	Number    githubv4.Int
	Title     githubv4.String
	State     githubv4.String
	URL       githubv4.String
	CreatedAt githubv4.DateTime
	Author    struct{ Login githubv4.String }
	Labels    labelConnection `graphql:"labels(first: $labelCount)"`
}

type pullRequestNode struct {
	Number   githubv4.Int
	Title    githubv4.String
	State    githubv4.String
	URL      githubv4.String
	MergedAt *githubv4.DateTime
	Author   struct{ Login githubv4.String }
	Labels   labelConnection `graphql:"labels(first: $labelCount)"`
	Files    struct {
		Nodes []struct {
			Path githubv4.String
		}
	} `graphql:"files(first: $fileCount)"`
}

type searchNode struct {
	Issue       issueNode       `graphql:"... on Issue"`
	PullRequest pullRequestNode `graphql:"... on PullRequest"`
}

type searchQuery struct {
	Search struct {
		Nodes    []searchNode
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
	} `graphql:"search(query: $query, type: ISSUE, first: $first, after: $cursor)"`
}

// searchQualifiers builds a search string scoped to one repository
func searchQualifiers(owner, repo string, qualifiers ...string) string {
	return strings.Join(append([]string{"repo:" + owner + "/" + repo}, qualifiers...), " ")
}

// search pages through the results of a search query
func (c *client) search(ctx context.Context, query string) iter.Seq2[*searchNode, error] {
	return func(yield func(*searchNode, error) bool) {
		var cursor *githubv4.String
		for {
			var q searchQuery
			variables := map[string]any{
				"query":      githubv4.String(query),
				"first":      githubv4.Int(searchPageSize),
				"cursor":     cursor,
				"labelCount": githubv4.Int(maxLabels),
				"fileCount":  githubv4.Int(maxFiles),
			}
			if err := c.gql.Query(ctx, &q, variables); err != nil {
				yield(nil, goerr.Wrap(err, "GitHub search failed", goerr.V("query", query)))
				return
			}

			for i := range q.Search.Nodes {
				if !yield(&q.Search.Nodes[i], nil) {
					return
				}
			}

			if !q.Search.PageInfo.HasNextPage {
				return
			}
			next := q.Search.PageInfo.EndCursor
			cursor = &next
		}
	}
}

func (c *client) FetchIssues(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*Issue, error] {
	qualifiers := []string{"is:issue", "sort:updated-asc"}
	if !since.IsZero() {
		qualifiers = append(qualifiers, "updated:>="+since.UTC().Format(time.RFC3339))
	}
	query := searchQualifiers(owner, repo, qualifiers...)

	return func(yield func(*Issue, error) bool) {
		for node, err := range c.search(ctx, query) {
			if err != nil {
				yield(nil, goerr.Wrap(err, "failed to fetch issues", goerr.V("owner", owner), goerr.V("repo", repo)))
				return
			}
			n := node.Issue
			if n.Number == 0 {
				continue
			}
			issue := &Issue{
				Number:    int(n.Number),
				Title:     string(n.Title),
				Author:    string(n.Author.Login),
				State:     string(n.State),
				URL:       string(n.URL),
				Labels:    n.Labels.names(),
				CreatedAt: n.CreatedAt.Time,
			}
			if !yield(issue, nil) {
				return
			}
		}
	}
}

func (c *client) FetchMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*PullRequest, error] {
	query := searchQualifiers(owner, repo,
		"is:pr", "is:merged", "sort:created-asc",
		"merged:>="+since.UTC().Format(time.RFC3339))

	return func(yield func(*PullRequest, error) bool) {
		for node, err := range c.search(ctx, query) {
			if err != nil {
				yield(nil, goerr.Wrap(err, "failed to fetch pull requests", goerr.V("owner", owner), goerr.V("repo", repo)))
				return
			}
			n := node.PullRequest
			// Search dates have day granularity
			if n.Number == 0 || n.MergedAt == nil || n.MergedAt.Before(since) {
				continue
			}

			files := make([]string, 0, len(n.Files.Nodes))
			for _, f := range n.Files.Nodes {
				files = append(files, string(f.Path))
			}
			pr := &PullRequest{
				Number:   int(n.Number),
				Title:    string(n.Title),
				Author:   string(n.Author.Login),
				State:    string(n.State),
				URL:      string(n.URL),
				Labels:   n.Labels.names(),
				Files:    files,
				MergedAt: n.MergedAt.Time,
			}
			if !yield(pr, nil) {
				return
			}
		}
	}
}
