package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

func TestNewGridCell(t *testing.T) {
	attr := model.Attribute{ID: 1, ProjectID: 7, Name: "Secure"}
	comp := model.Component{ID: 2, ProjectID: 7, Name: "Login", WatchedDirectories: []string{"//depot/login"}}

	t.Run("accepts capabilities of the same parents", func(t *testing.T) {
		cell, err := model.NewGridCell(attr, comp,
			model.Capability{ID: 10, AttributeID: 1, ComponentID: 2},
			model.Capability{ID: 11, AttributeID: 1, ComponentID: 2},
		)
		gt.NoError(t, err).Required()
		gt.Value(t, cell.AttributeID()).Equal(types.AttributeID(1))
		gt.Value(t, cell.ComponentID()).Equal(types.ComponentID(2))
		gt.Value(t, cell.ProjectID()).Equal(types.ProjectID(7))
		gt.Array(t, cell.Capabilities()).Length(2)
	})

	t.Run("accepts an empty cell", func(t *testing.T) {
		cell, err := model.NewGridCell(attr, comp)
		gt.NoError(t, err).Required()
		gt.Array(t, cell.Capabilities()).Length(0)
	})

	t.Run("rejects capability of another component", func(t *testing.T) {
		_, err := model.NewGridCell(attr, comp, model.Capability{ID: 12, AttributeID: 1, ComponentID: 3})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrInvalidCell)).True()
	})

	t.Run("accessors do not expose internal state", func(t *testing.T) {
		cell, err := model.NewGridCell(attr, comp, model.Capability{ID: 10, AttributeID: 1, ComponentID: 2, Name: "original"})
		gt.NoError(t, err).Required()

		caps := cell.Capabilities()
		caps[0].Name = "changed"
		dirs := cell.WatchedDirectories()
		dirs[0] = "//elsewhere"

		gt.Value(t, cell.Capabilities()[0].Name).Equal("original")
		gt.Value(t, cell.WatchedDirectories()[0]).Equal("//depot/login")
	})
}

func TestBuildGrid(t *testing.T) {
	attrs := []*model.Attribute{
		{ID: 2, Name: "Fast", DisplayOrder: 1},
		{ID: 1, Name: "Secure", DisplayOrder: 0},
	}
	comps := []*model.Component{
		{ID: 5, Name: "Search", DisplayOrder: 0},
		{ID: 6, Name: "Checkout", DisplayOrder: 1},
	}
	caps := []*model.Capability{
		{ID: 100, AttributeID: 1, ComponentID: 5},
		{ID: 101, AttributeID: 1, ComponentID: 5},
		{ID: 102, AttributeID: 2, ComponentID: 6},
		{ID: 103, AttributeID: 9, ComponentID: 6},
	}

	cells, orphans := model.BuildGrid(attrs, comps, caps)
	gt.Array(t, cells).Length(4).Required()
	gt.Array(t, orphans).Length(1)
	gt.Value(t, orphans[0].ID).Equal(types.CapabilityID(103))

	gt.Value(t, cells[0].AttributeID()).Equal(types.AttributeID(1))
	gt.Value(t, cells[0].ComponentID()).Equal(types.ComponentID(5))
	gt.Array(t, cells[0].Capabilities()).Length(2)
	gt.Value(t, cells[1].ComponentID()).Equal(types.ComponentID(6))
	gt.Array(t, cells[1].Capabilities()).Length(0)
	gt.Value(t, cells[3].AttributeID()).Equal(types.AttributeID(2))
	gt.Array(t, cells[3].Capabilities()).Length(1)

	found := model.FindCell(cells, 2, 6)
	gt.Value(t, found).NotNil()
	gt.Value(t, model.FindCell(cells, 3, 6)).Nil()
}

func TestAssociation_IsUnassigned(t *testing.T) {
	gt.Bool(t, model.Association{}.IsUnassigned()).True()
	gt.Bool(t, model.Association{ComponentID: 1}.IsUnassigned()).False()
	gt.Bool(t, model.Association{CapabilityID: 4}.IsUnassigned()).False()
}
