package models

import "time"

// FundingStatus is the workflow state of a funding opportunity
type FundingStatus string

const (
	FundingToReview  FundingStatus = "To Review"
	FundingPursuing  FundingStatus = "Pursuing"
	FundingSubmitted FundingStatus = "Submitted"
	FundingRejected  FundingStatus = "Rejected"
	FundingAwarded   FundingStatus = "Awarded"
)

// Valid reports whether s is a known funding status
func (s FundingStatus) Valid() bool {
	switch s {
	case FundingToReview, FundingPursuing, FundingSubmitted, FundingRejected, FundingAwarded:
		return true
	}
	return false
}

// SubmissionStatus is the state of an application package
type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "Draft"
	SubmissionApproved  SubmissionStatus = "Approved"
	SubmissionSubmitted SubmissionStatus = "Submitted"
)

// Valid reports whether s is a known submission status
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionDraft, SubmissionApproved, SubmissionSubmitted:
		return true
	}
	return false
}

// FundingOpportunity is a prospective funding source.
// (funder_name, programme_name) is unique at the storage level; ingestion
// dedupe relies on that constraint, not just its pre-insert check.
type FundingOpportunity struct {
	ID                  string         `json:"id"`
	FunderName          string         `json:"funder_name"`
	ProgrammeName       string         `json:"programme_name"`
	Deadline            *time.Time     `json:"deadline"`
	Status              FundingStatus  `json:"status"`
	EligibilityCriteria map[string]any `json:"eligibility_criteria"`
	BudgetRules         map[string]any `json:"budget_rules"`
}

// ApplicationPackage is the draft/submission artifact tied to exactly one
// opportunity (opportunity_id is unique at the storage level).
type ApplicationPackage struct {
	ID               string           `json:"id"`
	OpportunityID    string           `json:"opportunity_id"`
	NarrativeDraft   string           `json:"narrative_draft"`
	BudgetJSON       map[string]any   `json:"budget_json"`
	SubmissionStatus SubmissionStatus `json:"submission_status"`
	FinalApproval    bool             `json:"final_approval"`
}
