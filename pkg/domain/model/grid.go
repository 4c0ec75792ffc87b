package model

import (
	"cmp"
	"slices"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type cellKey struct {
	attributeID types.AttributeID
	componentID types.ComponentID
}

// BuildGrid creates one cell per attribute x component pair, attribute-major,
// each ordered by DisplayOrder then ID. Capabilities whose attribute or
// component is not in the given sets are returned as orphans.
func BuildGrid(attributes []*Attribute, components []*Component, capabilities []*Capability) (cells []*GridCell, orphans []Capability) {
	attrs := slices.Clone(attributes)
	slices.SortStableFunc(attrs, func(a, b *Attribute) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	comps := slices.Clone(components)
	slices.SortStableFunc(comps, func(a, b *Component) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})

	knownAttr := make(map[types.AttributeID]bool, len(attrs))
	for _, a := range attrs {
		knownAttr[a.ID] = true
	}
	knownComp := make(map[types.ComponentID]bool, len(comps))
	for _, c := range comps {
		knownComp[c.ID] = true
	}

	grouped := make(map[cellKey][]Capability)
	for _, c := range capabilities {
		if !knownAttr[c.AttributeID] || !knownComp[c.ComponentID] {
			orphans = append(orphans, *c)
			continue
		}
		key := cellKey{attributeID: c.AttributeID, componentID: c.ComponentID}
		grouped[key] = append(grouped[key], *c)
	}

	cells = make([]*GridCell, 0, len(attrs)*len(comps))
	for _, a := range attrs {
		for _, c := range comps {
			// grouping guarantees parent ids match, so construction cannot fail
			cell, _ := NewGridCell(*a, *c, grouped[cellKey{attributeID: a.ID, componentID: c.ID}]...)
			cells = append(cells, cell)
		}
	}

	return cells, orphans
}

// FindCell returns the cell for the given intersection, or nil
func FindCell(cells []*GridCell, attributeID types.AttributeID, componentID types.ComponentID) *GridCell {
	for _, c := range cells {
		if c.AttributeID() == attributeID && c.ComponentID() == componentID {
			return c
		}
	}
	return nil
}
