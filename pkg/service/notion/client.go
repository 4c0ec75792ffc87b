package notion

import (
	"context"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidRow is yielded for rows missing a usable test case ID
var ErrInvalidRow = goerr.New("invalid test case row")

// client implements Service interface
type client struct {
	api *notionapi.Client
}

type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the HTTP client used for API calls
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// New creates a new Notion service with the provided API token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []notionapi.ClientOption{
		notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, notionapi.WithHTTPClient(o.httpClient))
	}

	return &client{
		api: notionapi.NewClient(notionapi.Token(token), clientOpts...),
	}, nil
}

// QueryTestCases pages through the database and converts every row
func (c *client) QueryTestCases(ctx context.Context, dbID string, fields TestCaseFields, since time.Time) iter.Seq2[*TestCaseRow, error] {
	return func(yield func(*TestCaseRow, error) bool) {
		var cursor notionapi.Cursor

		for {
			req := &notionapi.DatabaseQueryRequest{
				StartCursor: cursor,
				PageSize:    100,
			}
			if !since.IsZero() {
				onOrAfter := notionapi.Date(since)
				req.Filter = &notionapi.TimestampFilter{
					Timestamp: "last_edited_time",
					LastEditedTime: &notionapi.DateFilterCondition{
						OnOrAfter: &onOrAfter,
					},
				}
			}

			resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
			if err != nil {
				yield(nil, goerr.Wrap(err, "failed to query database", goerr.V("dbID", dbID), goerr.V("since", since)))
				return
			}

			for _, page := range resp.Results {
				row, err := convertRow(page, fields)
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}

				if !yield(row, nil) {
					return
				}
			}

			if !resp.HasMore {
				break
			}
			cursor = resp.NextCursor
		}
	}
}

func convertRow(page notionapi.Page, fields TestCaseFields) (*TestCaseRow, error) {
	row := &TestCaseRow{
		PageID:         page.ID.String(),
		URL:            page.URL,
		LastEditedTime: time.Time(page.LastEditedTime),
	}

	idProp, ok := page.Properties[fields.ID].(*notionapi.NumberProperty)
	if !ok || idProp.Number <= 0 {
		return nil, goerr.Wrap(ErrInvalidRow, "test case ID property is missing or not a positive number",
			goerr.V("pageID", row.PageID),
			goerr.V("property", fields.ID))
	}
	row.ID = int64(idProp.Number)

	if title, ok := page.Properties[fields.Title].(*notionapi.TitleProperty); ok {
		row.Title = plainText(title.Title)
	}

	switch tags := page.Properties[fields.Tags].(type) {
	case *notionapi.MultiSelectProperty:
		for _, opt := range tags.MultiSelect {
			row.Tags = append(row.Tags, opt.Name)
		}
	case *notionapi.RichTextProperty:
		for _, tag := range strings.Split(plainText(tags.RichText), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				row.Tags = append(row.Tags, tag)
			}
		}
	}

	switch state := page.Properties[fields.State].(type) {
	case *notionapi.SelectProperty:
		row.State = state.Select.Name
	case *notionapi.StatusProperty:
		row.State = state.Status.Name
	}

	return row, nil
}

func plainText(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, t := range rt {
		sb.WriteString(t.PlainText)
	}
	return sb.String()
}
