package config

// Storage limits for ingested opportunity fields. Candidate names longer
// than these are truncated before the dedupe check so that the check and
// the stored row agree.
const (
	MaxFunderNameLength    = 100
	MaxProgrammeNameLength = 200
)

// MaxProjectTitleLength bounds project and section titles
const MaxProjectTitleLength = 255

// DefaultDeadlineDays is added to today when an ingested opportunity
// carries no parseable deadline
const DefaultDeadlineDays = 90

// DashboardItemLimit caps the recent/upcoming lists in dashboard stats
const DashboardItemLimit = 3
