package models

import "time"

// ProjectStatus is the coarse phase of a monograph project
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectReview     ProjectStatus = "Review"
	ProjectCompleted  ProjectStatus = "Completed"
)

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectReview, ProjectCompleted:
		return true
	}
	return false
}

// Project is a monograph project. It exclusively owns its sections and
// assets, which are cascade-deleted with it.
type Project struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Status        ProjectStatus `json:"status"`
	StartDate     *time.Time    `json:"start_date"`
	PrintDeadline *time.Time    `json:"print_deadline"`
	LaunchDate    *time.Time    `json:"launch_date"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
