package estimates

import (
	"testing"

	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
)

func TestBind_EveryCategoryResolves(t *testing.T) {
	for _, category := range enums.Categories() {
		var flooringType *enums.FlooringType
		if category == enums.CategoryFlooring {
			wooden := enums.FlooringTypeWooden
			flooringType = &wooden
		}

		binding, err := Bind(category, flooringType)
		if err != nil {
			t.Fatalf("category %s: %v", category, err)
		}
		if binding.HeaderTable == "" || binding.RowTable == "" || binding.VersionConstraint == "" {
			t.Fatalf("category %s: incomplete binding %+v", category, binding)
		}
	}
}

func TestBind_RowTableNames(t *testing.T) {
	binding, err := Bind(enums.CategoryWoodwork, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binding.RowTable != "woodwork_estimate_rows" {
		t.Fatalf("unexpected row table %s", binding.RowTable)
	}
	if binding.VersionConstraint != "woodwork_estimates_customer_version_key" {
		t.Fatalf("unexpected constraint %s", binding.VersionConstraint)
	}
}

func TestBind_FlooringRequiresSubType(t *testing.T) {
	_, err := Bind(enums.CategoryFlooring, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBind_SubTypeRejectedOutsideFlooring(t *testing.T) {
	vinyl := enums.FlooringTypeVinyl
	if _, err := Bind(enums.CategoryGranite, &vinyl); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBind_UnknownInputsRejected(t *testing.T) {
	if _, err := Bind(enums.Category("plutonium"), nil); err == nil {
		t.Fatal("expected validation error for unknown category")
	}
	bogus := enums.FlooringType("lava")
	if _, err := Bind(enums.CategoryFlooring, &bogus); err == nil {
		t.Fatal("expected validation error for unknown flooring type")
	}
}
