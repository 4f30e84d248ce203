package domain

// FundingCategory is the grant-compliance category assigned to logged time.
type FundingCategory string

const (
	CategoryInGrant      FundingCategory = "IN_GRANT"
	CategoryOutOfGrant   FundingCategory = "OUT_OF_GRANT"
	CategoryUnclassified FundingCategory = "UNCLASSIFIED"
)

// MinutesPerDay bounds the minutes field of a single worklog entry.
const MinutesPerDay = 1440
