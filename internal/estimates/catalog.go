package estimates

import (
	"fmt"

	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
)

// Binding carries the physical table names a category's estimates live in.
// All names come out of the closed catalog below; caller input never
// reaches a table identifier.
type Binding struct {
	Category          enums.Category
	HeaderTable       string
	RowTable          string
	VersionConstraint string
}

var headerTables = map[enums.Category]string{
	enums.CategoryGranite:      "granite_estimates",
	enums.CategoryWoodwork:     "woodwork_estimates",
	enums.CategoryCharcoal:     "charcoal_estimates",
	enums.CategoryQuartz:       "quartz_estimates",
	enums.CategoryWallpaper:    "wallpaper_estimates",
	enums.CategoryWainscoting:  "wainscoting_estimates",
	enums.CategoryFalseCeiling: "false_ceiling_estimates",
	enums.CategoryGrass:        "grass_estimates",
	enums.CategoryFlooring:     "flooring_estimates",
	enums.CategoryMosquitoNet:  "mosquito_net_estimates",
	enums.CategoryElectrical:   "electrical_estimates",
}

var flooringRowTables = map[enums.FlooringType]string{
	enums.FlooringTypeWooden: "flooring_wooden_estimate_rows",
	enums.FlooringTypeVinyl:  "flooring_vinyl_estimate_rows",
	enums.FlooringTypeCarpet: "flooring_carpet_estimate_rows",
}

// Bind resolves the table set for a category. Flooring requires a
// flooring type because each sub-type owns its own row table; every other
// category must not carry one.
func Bind(category enums.Category, flooringType *enums.FlooringType) (Binding, error) {
	header, ok := headerTables[category]
	if !ok {
		return Binding{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown estimate category %q", category))
	}

	binding := Binding{
		Category:          category,
		HeaderTable:       header,
		RowTable:          header[:len(header)-len("s")] + "_rows",
		VersionConstraint: header + "_customer_version_key",
	}

	if category == enums.CategoryFlooring {
		if flooringType == nil {
			return Binding{}, pkgerrors.New(pkgerrors.CodeValidation,
				"flooring estimates require a flooring type")
		}
		rowTable, ok := flooringRowTables[*flooringType]
		if !ok {
			return Binding{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown flooring type %q", *flooringType))
		}
		binding.RowTable = rowTable
		return binding, nil
	}

	if flooringType != nil {
		return Binding{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("flooring type is only valid for flooring estimates, got category %q", category))
	}
	return binding, nil
}

// HeaderTableFor returns the header table for a category without row
// binding; used by cross-category reads that never touch rows.
func HeaderTableFor(category enums.Category) (string, error) {
	header, ok := headerTables[category]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown estimate category %q", category))
	}
	return header, nil
}
