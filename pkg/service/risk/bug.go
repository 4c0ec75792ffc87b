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

type bugIndex struct {
	snapshot     model.IndexSnapshot
	byAttribute  multiIndex[types.AttributeID, *model.Bug]
	byComponent  multiIndex[types.ComponentID, *model.Bug]
	byCapability multiIndex[types.CapabilityID, *model.Bug]
	unassigned   []*model.Bug
}

func newBugIndex(projectID types.ProjectID, bugs []*model.Bug) *bugIndex {
	idx := &bugIndex{
		snapshot:     newSnapshot(projectID, len(bugs)),
		byAttribute:  make(multiIndex[types.AttributeID, *model.Bug]),
		byComponent:  make(multiIndex[types.ComponentID, *model.Bug]),
		byCapability: make(multiIndex[types.CapabilityID, *model.Bug]),
	}

	for _, bug := range bugs {
		if bug == nil {
			continue
		}
		if bug.IsUnassigned() {
			idx.unassigned = append(idx.unassigned, bug)
			continue
		}
		if bug.AttributeID.IsSet() {
			idx.byAttribute.add(bug.AttributeID, bug)
		}
		if bug.ComponentID.IsSet() {
			idx.byComponent.add(bug.ComponentID, bug)
		}
		if bug.CapabilityID.IsSet() {
			idx.byCapability.add(bug.CapabilityID, bug)
		}
	}

	return idx
}

// BugProvider scores a cell by defect density. A bug associated with an
// attribute counts for every cell of that attribute, and the same for
// components, so totals across cells double count on purpose.
type BugProvider struct {
	fetch   interfaces.BugFetcher
	weights config.BugWeights
	index   current[bugIndex]
}

var _ interfaces.RiskProvider = &BugProvider{}

func NewBugProvider(fetch interfaces.BugFetcher, weights config.BugWeights) *BugProvider {
	p := &BugProvider{
		fetch:   fetch,
		weights: weights,
	}
	p.index.swap(newBugIndex(0, nil))
	return p
}

func (p *BugProvider) Name() string {
	return NameBugs
}

func (p *BugProvider) Initialize(ctx context.Context, cells []*model.GridCell) error {
	projectID, ok := projectOf(cells)
	if !ok {
		p.index.swap(newBugIndex(0, nil))
		return nil
	}

	bugs, err := p.fetch(ctx, projectID)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch bugs", goerr.V("project_id", projectID))
	}

	idx := newBugIndex(projectID, bugs)
	p.index.swap(idx)

	logging.From(ctx).Info("bug index rebuilt",
		"project_id", projectID,
		"version", idx.snapshot.Version,
		"bugs", len(bugs),
		"unassigned", len(idx.unassigned),
	)
	return nil
}

func (p *BugProvider) Snapshot() model.IndexSnapshot {
	return p.index.load().snapshot
}

func (p *BugProvider) CalculateRisk(cell *model.GridCell) float64 {
	return p.score(p.index.load(), cell)
}

func (p *BugProvider) score(idx *bugIndex, cell *model.GridCell) float64 {
	risk := float64(len(idx.unassigned)) * p.weights.Unassigned
	risk += float64(len(idx.byAttribute.get(cell.AttributeID()))) * p.weights.Attribute
	risk += float64(len(idx.byComponent.get(cell.ComponentID()))) * p.weights.Component
	for _, c := range cell.Capabilities() {
		risk += float64(len(idx.byCapability.get(c.ID))) * p.weights.Capability
	}
	return risk
}

// Detail lists component bugs, then attribute bugs, then bugs per capability,
// and ends with the size of the unassigned bucket.
func (p *BugProvider) Detail(cell *model.GridCell) *model.RiskDetail {
	idx := p.index.load()
	detail := &model.RiskDetail{
		Provider: p.Name(),
		Score:    p.score(idx, cell),
	}

	component := cell.Component()
	for _, bug := range idx.byComponent.get(cell.ComponentID()) {
		detail.Entries = append(detail.Entries, bugEntry(model.RiskSectionComponent, component.Name, bug))
	}

	attribute := cell.Attribute()
	for _, bug := range idx.byAttribute.get(cell.AttributeID()) {
		detail.Entries = append(detail.Entries, bugEntry(model.RiskSectionAttribute, attribute.Name, bug))
	}

	for _, c := range cell.Capabilities() {
		for _, bug := range idx.byCapability.get(c.ID) {
			detail.Entries = append(detail.Entries, bugEntry(model.RiskSectionCapability, c.Name, bug))
		}
	}

	detail.Entries = append(detail.Entries, model.RiskEntry{
		Section: model.RiskSectionUnassigned,
		Label:   "unassigned bugs",
		Count:   len(idx.unassigned),
	})

	return detail
}

func bugEntry(section model.RiskSection, subject string, bug *model.Bug) model.RiskEntry {
	return model.RiskEntry{
		Section:    section,
		Subject:    subject,
		ExternalID: bug.ExternalID,
		Label:      bug.Title,
		URL:        bug.URL,
	}
}
