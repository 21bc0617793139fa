package types

import "fmt"

// Category is the business domain a notification belongs to. Presentation
// collaborators use it for routing and filtering.
type Category string

const (
	CategoryLegal       Category = "legal"
	CategoryFinancial   Category = "financial"
	CategoryLogistics   Category = "logistics"
	CategoryProduction  Category = "production"
	CategoryMarketing   Category = "marketing"
	CategoryScheduling  Category = "scheduling"
	CategoryMilestone   Category = "milestone"
	CategoryOpportunity Category = "opportunity"
	CategoryGeneral     Category = "general"
)

// AllCategories returns all valid notification categories
func AllCategories() []Category {
	return []Category{
		CategoryLegal,
		CategoryFinancial,
		CategoryLogistics,
		CategoryProduction,
		CategoryMarketing,
		CategoryScheduling,
		CategoryMilestone,
		CategoryOpportunity,
		CategoryGeneral,
	}
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	for _, v := range AllCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
