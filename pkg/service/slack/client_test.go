package slack_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/service/slack"
	slackapi "github.com/slack-go/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func newSlackServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	listCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations.list", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channels":[
			{"id":"C001","name":"risk-report","is_member":true},
			{"id":"C002","name":"random","is_member":false}
		],"response_metadata":{"next_cursor":""}}`))
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm()).Required()
		gt.Value(t, r.Form.Get("channel")).Equal("C001")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C001","ts":"1700000000.000100"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &listCalls
}

func TestResolveChannel(t *testing.T) {
	srv, listCalls := newSlackServer(t)
	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()
	ctx := context.Background()

	id, err := svc.ResolveChannel(ctx, "#Risk Report")
	gt.NoError(t, err).Required()
	gt.Value(t, id).Equal("C001")

	id, err = svc.ResolveChannel(ctx, "#risk-report")
	gt.NoError(t, err).Required()
	gt.Value(t, id).Equal("C001")
	gt.Value(t, *listCalls).Equal(1)

	id, err = svc.ResolveChannel(ctx, "C999")
	gt.NoError(t, err).Required()
	gt.Value(t, id).Equal("C999")

	_, err = svc.ResolveChannel(ctx, "#random")
	gt.Bool(t, errors.Is(err, slack.ErrChannelNotFound)).True()
}

func TestPostMessage(t *testing.T) {
	srv, _ := newSlackServer(t)
	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	blocks := []slackapi.Block{
		slackapi.NewSectionBlock(slackapi.NewTextBlockObject(slackapi.MarkdownType, "*hello*", false, false), nil, nil),
	}
	ts, err := svc.PostMessage(context.Background(), "C001", blocks, "hello")
	gt.NoError(t, err).Required()
	gt.Value(t, ts).Equal("1700000000.000100")
}
