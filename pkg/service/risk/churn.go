package risk

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/utils/dirtree"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

const maxSummaryLength = 100

type churnIndex struct {
	snapshot model.IndexSnapshot
	tree     *dirtree.Tree[int64]
	checkins map[int64]*model.Checkin
}

func newChurnIndex(ctx context.Context, projectID types.ProjectID, checkins []*model.Checkin) *churnIndex {
	idx := &churnIndex{
		tree:     dirtree.New[int64](),
		checkins: make(map[int64]*model.Checkin, len(checkins)),
	}

	for _, checkin := range checkins {
		if checkin == nil {
			continue
		}
		if _, exists := idx.checkins[checkin.ExternalID]; exists {
			logging.From(ctx).Warn("duplicate checkin id, keeping first",
				"project_id", projectID,
				"checkin_id", checkin.ExternalID,
			)
			continue
		}
		idx.checkins[checkin.ExternalID] = checkin

		seen := make(map[string]struct{}, len(checkin.Directories))
		for _, dir := range checkin.Directories {
			if _, dup := seen[dir]; dup {
				continue
			}
			seen[dir] = struct{}{}

			if err := idx.tree.Add(dir, checkin.ExternalID); err != nil {
				logging.From(ctx).Warn("skipping malformed checkin path",
					"project_id", projectID,
					"checkin_id", checkin.ExternalID,
					"path", dir,
					"error", err,
				)
			}
		}
	}

	// checkins without a usable directory can never score, so they are not counted
	idx.snapshot = newSnapshot(projectID, idx.tree.Len())
	return idx
}

// ChurnProvider scores a cell by the checkins under the directories watched
// by the cell's component.
type ChurnProvider struct {
	fetch   interfaces.CheckinFetcher
	weights config.ChurnWeights
	index   current[churnIndex]
}

var _ interfaces.RiskProvider = &ChurnProvider{}

func NewChurnProvider(fetch interfaces.CheckinFetcher, weights config.ChurnWeights) *ChurnProvider {
	p := &ChurnProvider{
		fetch:   fetch,
		weights: weights,
	}
	p.index.swap(newChurnIndex(context.Background(), 0, nil))
	return p
}

func (p *ChurnProvider) Name() string {
	return NameChurn
}

func (p *ChurnProvider) Initialize(ctx context.Context, cells []*model.GridCell) error {
	projectID, ok := projectOf(cells)
	if !ok {
		p.index.swap(newChurnIndex(ctx, 0, nil))
		return nil
	}

	checkins, err := p.fetch(ctx, projectID)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch checkins", goerr.V("project_id", projectID))
	}

	idx := newChurnIndex(ctx, projectID, checkins)
	p.index.swap(idx)

	logging.From(ctx).Info("churn index rebuilt",
		"project_id", projectID,
		"version", idx.snapshot.Version,
		"checkins", len(idx.checkins),
		"indexed", idx.snapshot.Records,
	)
	return nil
}

func (p *ChurnProvider) Snapshot() model.IndexSnapshot {
	return p.index.load().snapshot
}

type relevantCheckin struct {
	directory string
	checkin   *model.Checkin
}

// relevant unions the checkins under every watched directory of the cell,
// keeping first-seen order
func (p *ChurnProvider) relevant(idx *churnIndex, cell *model.GridCell) []relevantCheckin {
	var result []relevantCheckin
	seen := make(map[int64]struct{})

	for _, dir := range cell.WatchedDirectories() {
		ids, err := idx.tree.RecordsUnder(dir)
		if err != nil {
			logging.Default().Warn("skipping malformed watched directory",
				"component_id", cell.ComponentID(),
				"path", dir,
				"error", err,
			)
			continue
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, relevantCheckin{directory: dir, checkin: idx.checkins[id]})
		}
	}

	return result
}

func (p *ChurnProvider) CalculateRisk(cell *model.GridCell) float64 {
	return float64(len(p.relevant(p.index.load(), cell))) * p.weights.PerCheckin
}

func (p *ChurnProvider) Detail(cell *model.GridCell) *model.RiskDetail {
	idx := p.index.load()
	relevant := p.relevant(idx, cell)

	detail := &model.RiskDetail{
		Provider: p.Name(),
		Score:    float64(len(relevant)) * p.weights.PerCheckin,
	}
	for _, r := range relevant {
		detail.Entries = append(detail.Entries, model.RiskEntry{
			Section:    model.RiskSectionDirectory,
			Subject:    r.directory,
			ExternalID: r.checkin.ExternalID,
			Label:      fmt.Sprintf("%d: %s", r.checkin.ExternalID, Truncate(r.checkin.Summary, maxSummaryLength)),
			URL:        r.checkin.ChangeURL,
		})
	}
	return detail
}

// Truncate shortens s to at most limit runes, replacing the tail with "..."
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
