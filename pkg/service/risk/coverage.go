package risk

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

type coverageIndex struct {
	snapshot     model.IndexSnapshot
	byAttribute  multiIndex[types.AttributeID, *model.TestCase]
	byComponent  multiIndex[types.ComponentID, *model.TestCase]
	byCapability multiIndex[types.CapabilityID, *model.TestCase]
}

func newCoverageIndex(ctx context.Context, projectID types.ProjectID, testCases []*model.TestCase) *coverageIndex {
	idx := &coverageIndex{
		snapshot:     newSnapshot(projectID, len(testCases)),
		byAttribute:  make(multiIndex[types.AttributeID, *model.TestCase]),
		byComponent:  make(multiIndex[types.ComponentID, *model.TestCase]),
		byCapability: make(multiIndex[types.CapabilityID, *model.TestCase]),
	}

	for _, tc := range testCases {
		if tc == nil {
			continue
		}
		for _, raw := range tc.Tags {
			tag, err := model.ParseTag(raw)
			if err != nil {
				logging.From(ctx).Warn("skipping malformed test case tag",
					"project_id", projectID,
					"test_case_id", tc.ExternalID,
					"tag", raw,
					"error", err,
				)
				continue
			}

			switch tag.Kind {
			case model.TagKindAttribute:
				idx.byAttribute.add(types.AttributeID(tag.ID), tc)
			case model.TagKindComponent:
				idx.byComponent.add(types.ComponentID(tag.ID), tc)
			case model.TagKindCapability:
				idx.byCapability.add(types.CapabilityID(tag.ID), tc)
			}
		}
	}

	return idx
}

// CoverageProvider scores test coverage as risk mitigation: every distinct
// test case covering a cell lowers its score.
type CoverageProvider struct {
	fetch   interfaces.TestCaseFetcher
	weights config.CoverageWeights
	index   current[coverageIndex]
}

var _ interfaces.RiskProvider = &CoverageProvider{}

func NewCoverageProvider(fetch interfaces.TestCaseFetcher, weights config.CoverageWeights) *CoverageProvider {
	p := &CoverageProvider{
		fetch:   fetch,
		weights: weights,
	}
	p.index.swap(newCoverageIndex(context.Background(), 0, nil))
	return p
}

func (p *CoverageProvider) Name() string {
	return NameCoverage
}

func (p *CoverageProvider) Initialize(ctx context.Context, cells []*model.GridCell) error {
	projectID, ok := projectOf(cells)
	if !ok {
		p.index.swap(newCoverageIndex(ctx, 0, nil))
		return nil
	}

	testCases, err := p.fetch(ctx, projectID)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch test cases", goerr.V("project_id", projectID))
	}

	idx := newCoverageIndex(ctx, projectID, testCases)
	p.index.swap(idx)

	logging.From(ctx).Info("coverage index rebuilt",
		"project_id", projectID,
		"version", idx.snapshot.Version,
		"test_cases", len(testCases),
	)
	return nil
}

func (p *CoverageProvider) Snapshot() model.IndexSnapshot {
	return p.index.load().snapshot
}

// covering returns the distinct test cases matching the cell's attribute,
// component or capabilities. The first occurrence of an external ID wins.
func (p *CoverageProvider) covering(idx *coverageIndex, cell *model.GridCell) []*model.TestCase {
	var result []*model.TestCase
	seen := make(map[int64]struct{})
	collect := func(testCases []*model.TestCase) {
		for _, tc := range testCases {
			if _, dup := seen[tc.ExternalID]; dup {
				continue
			}
			seen[tc.ExternalID] = struct{}{}
			result = append(result, tc)
		}
	}

	collect(idx.byAttribute.get(cell.AttributeID()))
	collect(idx.byComponent.get(cell.ComponentID()))
	for _, c := range cell.Capabilities() {
		collect(idx.byCapability.get(c.ID))
	}

	return result
}

func (p *CoverageProvider) CalculateRisk(cell *model.GridCell) float64 {
	return float64(len(p.covering(p.index.load(), cell))) * p.weights.PerTestCase
}

func (p *CoverageProvider) Detail(cell *model.GridCell) *model.RiskDetail {
	testCases := p.covering(p.index.load(), cell)

	detail := &model.RiskDetail{
		Provider: p.Name(),
		Score:    float64(len(testCases)) * p.weights.PerTestCase,
	}
	for _, tc := range testCases {
		detail.Entries = append(detail.Entries, model.RiskEntry{
			Section:    model.RiskSectionTestCase,
			ExternalID: tc.ExternalID,
			Label:      tc.Title,
			URL:        tc.URL,
		})
	}
	return detail
}
