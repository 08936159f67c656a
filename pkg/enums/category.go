package enums

import "fmt"

// Category identifies one of the fixed material lines an estimate can be
// priced for. Each category owns its own header and row tables.
type Category string

const (
	CategoryGranite      Category = "granite"
	CategoryWoodwork     Category = "woodwork"
	CategoryCharcoal     Category = "charcoal"
	CategoryQuartz       Category = "quartz"
	CategoryWallpaper    Category = "wallpaper"
	CategoryWainscoting  Category = "wainscoting"
	CategoryFalseCeiling Category = "false_ceiling"
	CategoryGrass        Category = "grass"
	CategoryFlooring     Category = "flooring"
	CategoryMosquitoNet  Category = "mosquito_net"
	CategoryElectrical   Category = "electrical"
)

var validCategories = []Category{
	CategoryGranite,
	CategoryWoodwork,
	CategoryCharcoal,
	CategoryQuartz,
	CategoryWallpaper,
	CategoryWainscoting,
	CategoryFalseCeiling,
	CategoryGrass,
	CategoryFlooring,
	CategoryMosquitoNet,
	CategoryElectrical,
}

// Categories returns every known category in declaration order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
