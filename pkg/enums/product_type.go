package enums

import "fmt"

// ProductType drives which pricing strategy a cart line receives.
type ProductType string

const (
	ProductTypeTool       ProductType = "tool"
	ProductTypeConsumable ProductType = "consumable"
	ProductTypeOther      ProductType = "other"
)

var validProductTypes = []ProductType{
	ProductTypeTool,
	ProductTypeConsumable,
	ProductTypeOther,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType. Unknown values
// classify as "other" rather than failing, matching the catalog contract.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return ProductTypeOther, fmt.Errorf("invalid product type %q", value)
}
