package github

import (
	"context"
	"iter"
	"time"
)

// Service reads defect and change history from a repository
type Service interface {
	// FetchIssues yields issues in any state updated since the given time.
	// A zero since reads every issue.
	FetchIssues(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*Issue, error]

	// FetchMergedPullRequests yields pull requests merged since the given
	// time together with the paths they changed
	FetchMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*PullRequest, error]
}

// PullRequest is a merged pull request. Files lists at most the first 100
// changed paths.
type PullRequest struct {
	Number   int
	Title    string
	Author   string
	State    string
	URL      string
	Labels   []string
	Files    []string
	MergedAt time.Time
}

type Issue struct {
	Number    int
	Title     string
	Author    string
	State     string
	URL       string
	Labels    []string
	CreatedAt time.Time
}
