package domain

// ActivityDefinition is a row of the activity catalog: what an activity code
// means and how it is funded. FundingCategory carries the raw catalog string;
// the classifier normalizes it to a FundingCategory enum value.
type ActivityDefinition struct {
	Code            string
	Label           string
	Allowable       bool
	FundingCategory string
}

// Classification is the derived funding verdict for one entry. It is never
// persisted on its own; every aggregation pass recomputes it so catalog
// corrections affect future closures.
type Classification struct {
	Category      FundingCategory
	Billable      bool
	Minutes       int
	ActivityCode  string
	ActivityLabel string
}
