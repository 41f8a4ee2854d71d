package models

// SectionStatus is the editorial state of a section.
//
// The lifecycle is Draft -> Review -> Locked, with reject returning the
// section to Draft. Locked content is immutable: update attempts are
// refused rather than silently desynchronizing the lock checks.
type SectionStatus string

const (
	SectionDraft  SectionStatus = "Draft"
	SectionReview SectionStatus = "Review"
	SectionLocked SectionStatus = "Locked"
)

// Valid reports whether s is a known section status
func (s SectionStatus) Valid() bool {
	switch s {
	case SectionDraft, SectionReview, SectionLocked:
		return true
	}
	return false
}

// Section is a titled, versioned unit of document content belonging to a
// project. Version starts at 1 and increments by exactly 1 on every
// content update, whether or not the text actually changed.
type Section struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	Title       string        `json:"title"`
	Version     int           `json:"version"`
	Status      SectionStatus `json:"status"`
	ContentText string        `json:"content_text"`
	OrderIndex  int           `json:"order_index"`
}
