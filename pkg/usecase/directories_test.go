package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
)

func TestTouchedDirectories(t *testing.T) {
	t.Run("joins under prefix and deduplicates", func(t *testing.T) {
		dirs := usecase.TouchedDirectories("//depot/shop", []string{
			"checkout/api/handler.go",
			"checkout/api/handler_test.go",
			"README.md",
			"search/index.go",
		})
		gt.Value(t, dirs).Equal([]string{
			"/depot/shop/checkout/api",
			"/depot/shop",
			"/depot/shop/search",
		})
	})

	t.Run("top level files without prefix map to root", func(t *testing.T) {
		dirs := usecase.TouchedDirectories("", []string{"go.mod", "pkg/a.go"})
		gt.Value(t, dirs).Equal([]string{"/", "pkg"})
	})

	t.Run("skips empty and dev null", func(t *testing.T) {
		dirs := usecase.TouchedDirectories("/p", []string{"", "  ", "/dev/null"})
		gt.A(t, dirs).Length(0)
	})
}

func TestLabelAssociation(t *testing.T) {
	ctx := t.Context()

	assoc := usecase.LabelAssociation(ctx, "issue", 1, []string{
		"bug",
		"P1",
		"Component:3",
		"Attribute:x",
		"Attribute:2",
		"Component:9",
		"team:payments",
	})
	gt.Value(t, int64(assoc.AttributeID)).Equal(2)
	gt.Value(t, int64(assoc.ComponentID)).Equal(3)
	gt.Bool(t, assoc.CapabilityID.IsSet()).False()

	gt.Bool(t, usecase.LabelAssociation(ctx, "pull_request", 2, nil).IsUnassigned()).True()
}
