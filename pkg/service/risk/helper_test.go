package risk_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

const testProjectID types.ProjectID = 7

func newCell(t *testing.T, attrID types.AttributeID, compID types.ComponentID, dirs []string, caps ...model.Capability) *model.GridCell {
	t.Helper()
	for i := range caps {
		caps[i].ProjectID = testProjectID
		caps[i].AttributeID = attrID
		caps[i].ComponentID = compID
	}
	cell, err := model.NewGridCell(
		model.Attribute{ID: attrID, ProjectID: testProjectID, Name: "attr-" + attrID.String()},
		model.Component{ID: compID, ProjectID: testProjectID, Name: "comp-" + compID.String(), WatchedDirectories: dirs},
		caps...,
	)
	gt.NoError(t, err).Required()
	return cell
}

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score mismatch: got %v, want %v", got, want)
	}
}
