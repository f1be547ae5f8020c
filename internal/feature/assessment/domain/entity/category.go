// Package entity defines the domain models for the assessment feature.
package entity

// Category is one of the six buyer-readiness categories. Every assessment
// question, task, and BRI sub-score belongs to exactly one category.
type Category string

const (
	CategoryFinancial       Category = "FINANCIAL"
	CategoryTransferability Category = "TRANSFERABILITY"
	CategoryOperational     Category = "OPERATIONAL"
	CategoryMarket          Category = "MARKET"
	CategoryLegalTax        Category = "LEGAL_TAX"
	CategoryPersonal        Category = "PERSONAL"
)

// AllCategories returns the six categories in their canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryFinancial,
		CategoryTransferability,
		CategoryOperational,
		CategoryMarket,
		CategoryLegalTax,
		CategoryPersonal,
	}
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinancial, CategoryTransferability, CategoryOperational,
		CategoryMarket, CategoryLegalTax, CategoryPersonal:
		return true
	}
	return false
}
