// Package classifier maps logged activities to grant-funding categories.
// Classification is pure and deterministic: the same entry and catalog
// always produce the same verdict, with no I/O and no shared state.
package classifier

import (
	"strings"

	"github.com/alexanderramin/granthours/internal/domain"
)

// Catalog is an in-memory view of the activity catalog keyed by code.
type Catalog map[string]domain.ActivityDefinition

// BuildCatalog indexes catalog rows by activity code. Later rows win on
// duplicate codes, matching last-write semantics of the backing table.
func BuildCatalog(defs []domain.ActivityDefinition) Catalog {
	c := make(Catalog, len(defs))
	for _, d := range defs {
		c[d.Code] = d
	}
	return c
}

// categorySynonyms maps normalized funding-category strings to the canonical
// enum. Catalog data is hand-maintained, so spelling drifts.
var categorySynonyms = map[string]domain.FundingCategory{
	"IN":           domain.CategoryInGrant,
	"IN_GRANT":     domain.CategoryInGrant,
	"IN-GRANT":     domain.CategoryInGrant,
	"INGRANT":      domain.CategoryInGrant,
	"OUT":          domain.CategoryOutOfGrant,
	"OUT_OF_GRANT": domain.CategoryOutOfGrant,
	"OUT-OF-GRANT": domain.CategoryOutOfGrant,
	"OUTOFGRANT":   domain.CategoryOutOfGrant,
	"OOG":          domain.CategoryOutOfGrant,
	"NON_GRANT":    domain.CategoryOutOfGrant,
	"NON-GRANT":    domain.CategoryOutOfGrant,
	"NONGRANT":     domain.CategoryOutOfGrant,
}

// reservedCodes classify on the activity code itself when the catalog row
// carries no usable funding category. Covers known catalog gaps.
var reservedCodes = map[string]domain.FundingCategory{
	"NON_GRANT": domain.CategoryOutOfGrant,
	"OTHER":     domain.CategoryOutOfGrant,
}

// NormalizeCategory resolves a raw catalog funding-category string to the
// canonical enum: case-insensitive, whitespace-stripped synonym match.
// Anything unrecognized is UNCLASSIFIED.
func NormalizeCategory(raw string) domain.FundingCategory {
	key := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if cat, ok := categorySynonyms[key]; ok {
		return cat
	}
	return domain.CategoryUnclassified
}

// Classify derives the funding verdict for one entry against the catalog.
// An unknown activity code degrades to UNCLASSIFIED/non-billable rather
// than failing; validation is where unknown codes block entry.
func Classify(e *domain.WorklogEntry, catalog Catalog) domain.Classification {
	c := domain.Classification{
		Category:      domain.CategoryUnclassified,
		Minutes:       e.Minutes,
		ActivityCode:  e.ActivityCode,
		ActivityLabel: e.ActivityCode,
	}
	if c.ActivityLabel == "" {
		c.ActivityLabel = "Unclassified"
	}

	def, known := catalog[e.ActivityCode]
	if known {
		if def.Label != "" {
			c.ActivityLabel = def.Label
		}
		c.Category = NormalizeCategory(def.FundingCategory)
	}
	if c.Category == domain.CategoryUnclassified {
		if cat, ok := reservedCodes[e.ActivityCode]; ok {
			c.Category = cat
		}
	}

	// Absent catalog row means non-billable regardless of category.
	c.Billable = known && def.Allowable && c.Category == domain.CategoryInGrant
	return c
}
