package risk_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/risk"
)

func staticCheckins(checkins ...*model.Checkin) func(context.Context, types.ProjectID) ([]*model.Checkin, error) {
	return func(ctx context.Context, projectID types.ProjectID) ([]*model.Checkin, error) {
		return checkins, nil
	}
}

func TestChurnProvider_CalculateRisk(t *testing.T) {
	checkins := []*model.Checkin{
		{ExternalID: 1, Summary: "fix login", Directories: []string{"//depot/app/login", "//depot/app/login/ui"}},
		{ExternalID: 2, Summary: "tweak search", Directories: []string{`depot\app\search`}},
		{ExternalID: 3, Summary: "shared change", Directories: []string{"depot/app/login", "depot/app/search"}},
		{ExternalID: 4, Summary: "bad path", Directories: []string{"depot/\x00/x"}},
	}
	p := risk.NewChurnProvider(staticCheckins(checkins...), config.DefaultRiskConfig().Churn)

	login := newCell(t, 1, 2, []string{"depot/app/login"})
	search := newCell(t, 1, 3, []string{"//depot/app/search"})
	both := newCell(t, 1, 4, []string{"depot/app/login", "depot/app/search"})
	none := newCell(t, 1, 5, nil)

	gt.NoError(t, p.Initialize(context.Background(), []*model.GridCell{login, search, both, none})).Required()

	assertScore(t, p.CalculateRisk(login), 0.40)
	assertScore(t, p.CalculateRisk(search), 0.40)
	// checkin 3 is under both directories but counts once
	assertScore(t, p.CalculateRisk(both), 0.60)
	gt.Value(t, p.CalculateRisk(none)).Equal(0.0)

	t.Run("parent directory sees everything below", func(t *testing.T) {
		root := newCell(t, 1, 6, []string{"depot"})
		assertScore(t, p.CalculateRisk(root), 0.60)
	})

	t.Run("malformed watched directory is skipped", func(t *testing.T) {
		cell := newCell(t, 1, 7, []string{"bad\x00dir", "depot/app/search"})
		assertScore(t, p.CalculateRisk(cell), 0.40)
	})
}

func TestChurnProvider_Detail(t *testing.T) {
	long := strings.Repeat("あ", 120)
	p := risk.NewChurnProvider(staticCheckins(
		&model.Checkin{ExternalID: 10, Summary: "short", ChangeURL: "https://review.example.com/10", Directories: []string{"a/b"}},
		&model.Checkin{ExternalID: 11, Summary: long, Directories: []string{"a/c"}},
	), config.DefaultRiskConfig().Churn)
	cell := newCell(t, 1, 2, []string{"a/b", "a"})
	gt.NoError(t, p.Initialize(context.Background(), []*model.GridCell{cell})).Required()

	detail := p.Detail(cell)
	gt.Value(t, detail.Provider).Equal(risk.NameChurn)
	assertScore(t, detail.Score, 0.40)
	gt.Array(t, detail.Entries).Length(2).Required()

	gt.Value(t, detail.Entries[0].Section).Equal(model.RiskSectionDirectory)
	gt.Value(t, detail.Entries[0].Subject).Equal("a/b")
	gt.Value(t, detail.Entries[0].Label).Equal("10: short")
	gt.Value(t, detail.Entries[0].URL).Equal("https://review.example.com/10")

	gt.Value(t, detail.Entries[1].Subject).Equal("a")
	gt.Value(t, detail.Entries[1].Label).Equal("11: " + strings.Repeat("あ", 97) + "...")
}

func TestChurnProvider_DuplicateExternalID(t *testing.T) {
	p := risk.NewChurnProvider(staticCheckins(
		&model.Checkin{ExternalID: 1, Summary: "first", Directories: []string{"a"}},
		&model.Checkin{ExternalID: 1, Summary: "second", Directories: []string{"b"}},
	), config.DefaultRiskConfig().Churn)
	cell := newCell(t, 1, 2, []string{"a", "b"})
	gt.NoError(t, p.Initialize(context.Background(), []*model.GridCell{cell})).Required()

	detail := p.Detail(cell)
	gt.Array(t, detail.Entries).Length(1).Required()
	gt.Value(t, detail.Entries[0].Label).Equal("1: first")
	gt.Value(t, p.Snapshot().Records).Equal(1)
}

func TestChurnProvider_RecordsCountIndexedCheckins(t *testing.T) {
	p := risk.NewChurnProvider(staticCheckins(
		&model.Checkin{ExternalID: 1, Summary: "indexed", Directories: []string{"a", "a/b"}},
		&model.Checkin{ExternalID: 2, Summary: "no directories"},
		&model.Checkin{ExternalID: 3, Summary: "malformed", Directories: []string{"a\x00b"}},
	), config.DefaultRiskConfig().Churn)
	cell := newCell(t, 1, 2, []string{"a"})
	gt.NoError(t, p.Initialize(context.Background(), []*model.GridCell{cell})).Required()

	gt.Value(t, p.Snapshot().Records).Equal(1)
	assertScore(t, p.CalculateRisk(cell), 0.20)
}

func TestTruncate(t *testing.T) {
	gt.Value(t, risk.Truncate("abc", 100)).Equal("abc")
	gt.Value(t, risk.Truncate(strings.Repeat("x", 100), 100)).Equal(strings.Repeat("x", 100))
	gt.Value(t, risk.Truncate(strings.Repeat("x", 101), 100)).Equal(strings.Repeat("x", 97) + "...")
	gt.Value(t, risk.Truncate("abcdef", 2)).Equal("ab")
}
